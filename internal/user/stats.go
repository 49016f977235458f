package user

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Trade outcomes own the reputation fields; the scoring engine only
// reads them. These helpers run inside the trade lifecycle transactions.

// RecordCompletedTrade bumps the trade count and folds a completed
// outcome into the completion/cancellation running averages.
func RecordCompletedTrade(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE users SET
			completion_rate = (completion_rate * total_trades + 100) / (total_trades + 1),
			cancellation_rate = (cancellation_rate * total_trades) / (total_trades + 1),
			total_trades = total_trades + 1,
			updated_at = NOW()
		WHERE id = $1
	`, userID)
	return err
}

// RecordCancelledTrade folds a cancellation into the running averages.
func RecordCancelledTrade(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE users SET
			completion_rate = (completion_rate * total_trades) / (total_trades + 1),
			cancellation_rate = (cancellation_rate * total_trades + 100) / (total_trades + 1),
			total_trades = total_trades + 1,
			updated_at = NOW()
		WHERE id = $1
	`, userID)
	return err
}

// ApplyReviewRating moves the trust score towards the received rating.
// A 1-5 rating maps onto the 0-100 trust scale; recent reviews weigh
// 20% against accumulated history.
func ApplyReviewRating(ctx context.Context, tx pgx.Tx, userID string, rating int) error {
	_, err := tx.Exec(ctx, `
		UPDATE users SET
			trust_score = LEAST(100, GREATEST(0, trust_score * 0.8 + $2 * 20 * 0.2)),
			updated_at = NOW()
		WHERE id = $1
	`, userID, rating)
	return err
}
