package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/db"
)

// StarterCredits is granted to every new member so they can take part in
// their first trade before earning anything.
const StarterCredits = 5.0

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	City     string `json:"city"`
	Category string `json:"category"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 6 characters are required"})
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	conn := db.Conn
	ctx := context.Background()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role, city, category, email_verified)
		VALUES ($1, $2, $3, $4, 'member', $5, $6, FALSE)
		RETURNING id
	`, uuid.New().String(), req.Name, req.Email, string(hashed), req.City, req.Category).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	// Credit account with the starter grant
	_, err = tx.Exec(ctx, `
		INSERT INTO credit_accounts (id, user_id, balance, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), userID, StarterCredits, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit account creation failed"})
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO credit_entries (id, user_id, amount, kind, note)
		VALUES ($1, $2, $3, 'grant', 'starter credits')
	`, uuid.New().String(), userID, StarterCredits)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit grant failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	// Welcome email, best-effort
	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	// JWT with user_id
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "member",
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}
