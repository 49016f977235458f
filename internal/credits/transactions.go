package credits

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

// GetUserTransactions returns the authenticated user's ledger, newest first
func GetUserTransactions(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized or invalid user"})
	}

	rows, err := db.Conn.Query(
		context.Background(),
		`SELECT id, user_id, amount, kind, loop_id, COALESCE(note, ''), created_at
		 FROM credit_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Kind, &e.LoopID, &e.Note, &e.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		entries = append(entries, e)
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": entries})
}
