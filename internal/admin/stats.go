package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, offerings, intents, loops, completed, accounts, entries int
	var circulating float64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM offerings`).Scan(&offerings)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM match_intents WHERE status = 'active'`).Scan(&intents)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM trade_loops`).Scan(&loops)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM trade_loops WHERE status = 'completed'`).Scan(&completed)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM credit_accounts`).Scan(&accounts)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM credit_entries`).Scan(&entries)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0) FROM credit_accounts`).Scan(&circulating)

	return c.JSON(http.StatusOK, echo.Map{
		"users":               users,
		"offerings":           offerings,
		"active_intents":      intents,
		"loops":               loops,
		"completed_loops":     completed,
		"credit_accounts":     accounts,
		"credit_entries":      entries,
		"circulating_credits": circulating,
	})
}
