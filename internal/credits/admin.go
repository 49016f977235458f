package credits

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

// AdminGetAllTransactions returns the full ledger across all members
func AdminGetAllTransactions(c echo.Context) error {
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	offset := 0
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, user_id, amount, kind, loop_id, COALESCE(note, ''), created_at
		 FROM credit_entries ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
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

	return c.JSON(http.StatusOK, echo.Map{
		"transactions": entries,
		"pagination":   echo.Map{"limit": limit, "offset": offset},
	})
}

// AdminListAccounts returns every credit account with its balance
func AdminListAccounts(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, user_id, balance, created_at FROM credit_accounts ORDER BY balance DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch accounts"})
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Balance, &a.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		accounts = append(accounts, a)
	}

	return c.JSON(http.StatusOK, echo.Map{"accounts": accounts})
}
