package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/db"
)

// The reset flow never reveals whether an email is registered.
const resetSentMessage = "If that email belongs to a TimeBank NG account, a reset link is on its way."

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetToken mints a short-lived token scoped to password resets so a
// login token can never be replayed against /auth/password/reset.
func resetToken(userID string) (string, error) {
	minutes := 30
	if v := os.Getenv("PASSWORD_RESET_EXP_MINUTES"); v != "" {
		if dur, err := time.ParseDuration(v + "m"); err == nil {
			minutes = int(dur.Minutes())
		}
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(time.Duration(minutes) * time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// parseResetToken validates a reset token and returns the user it was
// minted for.
func parseResetToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "password_reset" {
		return "", fmt.Errorf("invalid token purpose")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("invalid token subject")
	}
	return userID, nil
}

// POST /auth/password/request
func RequestPasswordReset(c echo.Context) error {
	req := new(ForgotPasswordRequest)
	if err := c.Bind(req); err != nil || req.Email == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": resetSentMessage})
	}

	var userID, name string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name FROM users WHERE email = $1`, req.Email,
	).Scan(&userID, &name)
	if err != nil || userID == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": resetSentMessage})
	}

	signed, err := resetToken(userID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": resetSentMessage})
	}

	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(base, "/"), url.QueryEscape(signed))

	_ = alerts.EnqueuePasswordReset(userID, req.Email, resetURL, name)

	return c.JSON(http.StatusOK, echo.Map{"message": resetSentMessage})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// POST /auth/password/reset
func ResetPassword(c echo.Context) error {
	req := new(ResetPasswordRequest)
	if err := c.Bind(req); err != nil || req.Token == "" || len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	userID, err := parseResetToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, string(hashed), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
