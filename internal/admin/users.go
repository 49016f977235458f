package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/db"
)

type AdminUser struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	City        string    `json:"city"`
	Category    string    `json:"category"`
	TrustScore  float64   `json:"trust_score"`
	TotalTrades int       `json:"total_trades"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// GET /admin/users
func ListUsers(c echo.Context) error {
	ctx := context.Background()

	rows, err := db.Conn.Query(ctx, `
		SELECT id, name, email, role, COALESCE(city, ''), COALESCE(category, ''),
		       trust_score, total_trades, COALESCE(is_active, TRUE), created_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	defer rows.Close()

	var users []AdminUser
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.City, &u.Category,
			&u.TrustScore, &u.TotalTrades, &u.IsActive, &u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read user record"})
		}
		users = append(users, u)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// POST /admin/users/:id/suspend
func SuspendUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	_, err := db.Conn.Exec(context.Background(), `UPDATE users SET is_active = FALSE WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to suspend user"})
	}

	adminID, _ := c.Get("user_id").(string)
	if err := alerts.EnqueueAdminAlert(adminID, "warning",
		fmt.Sprintf("user %s suspended by admin %s", userID, adminID)); err != nil {
		log.Println("[admin] failed to enqueue suspend alert:", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user suspended", "user_id": userID})
}

// POST /admin/users/:id/activate
func ActivateUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	_, err := db.Conn.Exec(context.Background(), `UPDATE users SET is_active = TRUE WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user activated", "user_id": userID})
}

// POST /admin/users/:id/verify_business
// CAC document review happens off-platform; this flips the flag the
// match scorer reads once a reviewer approves.
func VerifyBusiness(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	res, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET business_verified = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify business"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	adminID, _ := c.Get("user_id").(string)
	if err := alerts.EnqueueAdminAlert(adminID, "info",
		fmt.Sprintf("business verified for user %s by admin %s", userID, adminID)); err != nil {
		log.Println("[admin] failed to enqueue verification alert:", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "business verified", "user_id": userID})
}
