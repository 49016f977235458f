package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

// GET /user/:id/profile
// Public reputation view: trust score, verification and trade history
// are visible to anyone evaluating a potential trade partner. Email and
// role stay private.
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var u User
	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, name, city, category, COALESCE(bio, ''), COALESCE(avatar_url, ''), trust_score,
		       phone_verified, email_verified, business_verified,
		       completion_rate, total_trades, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.City, &u.Category, &u.Bio, &u.AvatarURL, &u.TrustScore,
		&u.PhoneVerified, &u.EmailVerified, &u.BusinessVerified,
		&u.CompletionRate, &u.TotalTrades, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}

	return c.JSON(http.StatusOK, u.PublicView())
}
