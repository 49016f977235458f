package credits

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordEarning credits a participant for delivered work inside the
// trade-completion transaction.
func RecordEarning(ctx context.Context, tx pgx.Tx, userID, loopID string, amount float64, note string) error {
	if _, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = balance + $1 WHERE user_id = $2`,
		amount, userID,
	); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO credit_entries (id, user_id, amount, kind, loop_id, note)
		 VALUES ($1, $2, $3, 'earn', $4, $5)`,
		uuid.New().String(), userID, amount, loopID, note,
	)
	return err
}

// RecordSpend debits a participant for work received inside the
// trade-completion transaction. Balances may go negative: the time bank
// tolerates short-term debt, capped by discovery rules upstream.
func RecordSpend(ctx context.Context, tx pgx.Tx, userID, loopID string, amount float64, note string) error {
	if _, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = balance - $1 WHERE user_id = $2`,
		amount, userID,
	); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO credit_entries (id, user_id, amount, kind, loop_id, note)
		 VALUES ($1, $2, $3, 'spend', $4, $5)`,
		uuid.New().String(), userID, amount, loopID, note,
	)
	return err
}
