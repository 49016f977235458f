package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/user"
)

// Me returns the currently authenticated user's profile, including the
// reputation fields that feed match scoring. The password hash never
// leaves the model.
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var u user.User
	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, name, email, role, city, category,
		       COALESCE(bio, ''), COALESCE(avatar_url, ''), trust_score,
		       phone_verified, email_verified, business_verified,
		       response_time_hours, completion_rate, cancellation_rate, total_trades, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.City, &u.Category,
		&u.Bio, &u.AvatarURL, &u.TrustScore,
		&u.PhoneVerified, &u.EmailVerified, &u.BusinessVerified,
		&u.ResponseTimeHours, &u.CompletionRate, &u.CancellationRate, &u.TotalTrades, &u.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, u)
}
