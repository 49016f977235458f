package user

import (
	"context"

	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/scoring"
)

// LoadScoringView fetches the read-only profile fields the match engine
// consumes for one user.
func LoadScoringView(ctx context.Context, userID string) (scoring.Profile, error) {
	var p scoring.Profile
	err := db.Conn.QueryRow(ctx, `
		SELECT id, city, category, trust_score,
		       phone_verified, email_verified, business_verified,
		       response_time_hours, completion_rate, cancellation_rate, total_trades
		FROM users WHERE id = $1 AND COALESCE(is_active, TRUE)
	`, userID).Scan(&p.ID, &p.City, &p.Category, &p.TrustScore,
		&p.PhoneVerified, &p.EmailVerified, &p.BusinessVerified,
		&p.ResponseTimeHours, &p.CompletionRate, &p.CancellationRate, &p.TotalTrades)
	return p, err
}

// LoadScoringViews fetches scoring profiles for a set of users in one
// query, keyed by user id. Inactive users are left out.
func LoadScoringViews(ctx context.Context, userIDs []string) (map[string]scoring.Profile, error) {
	views := make(map[string]scoring.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return views, nil
	}
	rows, err := db.Conn.Query(ctx, `
		SELECT id, city, category, trust_score,
		       phone_verified, email_verified, business_verified,
		       response_time_hours, completion_rate, cancellation_rate, total_trades
		FROM users WHERE id = ANY($1) AND COALESCE(is_active, TRUE)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p scoring.Profile
		if err := rows.Scan(&p.ID, &p.City, &p.Category, &p.TrustScore,
			&p.PhoneVerified, &p.EmailVerified, &p.BusinessVerified,
			&p.ResponseTimeHours, &p.CompletionRate, &p.CancellationRate, &p.TotalTrades); err != nil {
			return nil, err
		}
		views[p.ID] = p
	}
	return views, rows.Err()
}
