package trade

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

// CreateIntent declares what a member offers and what they need in
// return, feeding loop discovery.
func CreateIntent(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Offers string `json:"offers_category"`
		Needs  string `json:"needs_category"`
	}
	if err := c.Bind(&req); err != nil || req.Offers == "" || req.Needs == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "offers_category and needs_category are required"})
	}
	if !validCategoryID(req.Offers) || !validCategoryID(req.Needs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}
	if req.Offers == req.Needs {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "offered and needed categories must differ"})
	}

	ctx := context.Background()

	// One active intent per member: a new declaration replaces the old one.
	_, _ = db.Conn.Exec(ctx,
		`UPDATE match_intents SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'`, uid)

	intentID := uuid.New().String()
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO match_intents (id, user_id, offers_category, needs_category, status, created_at)
		 VALUES ($1, $2, $3, $4, 'active', $5)`,
		intentID, uid, req.Offers, req.Needs, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create intent"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"intent_id": intentID,
		"message":   "intent registered. Check /matches/discover for trade loops.",
	})
}

// GetMyIntents returns the authenticated user's intents, newest first
func GetMyIntents(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, user_id, offers_category, needs_category, status, created_at
		 FROM match_intents WHERE user_id = $1 ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch intents"})
	}
	defer rows.Close()

	var intents []Intent
	for rows.Next() {
		var i Intent
		if err := rows.Scan(&i.ID, &i.UserID, &i.Offers, &i.Needs, &i.Status, &i.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse intent record"})
		}
		intents = append(intents, i)
	}

	return c.JSON(http.StatusOK, echo.Map{"intents": intents})
}

// CancelIntent withdraws an active intent
func CancelIntent(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	intentID := c.Param("id")
	if intentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing intent id"})
	}

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE match_intents SET status = 'cancelled' WHERE id = $1 AND user_id = $2 AND status = 'active'`,
		intentID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel intent"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "intent not found or not active"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "intent cancelled"})
}
