package trade

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/category"
	"github.com/Xploreicon/timebankng/internal/credits"
	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/exchange"
	"github.com/Xploreicon/timebankng/internal/matching"
	"github.com/Xploreicon/timebankng/internal/messaging"
	"github.com/Xploreicon/timebankng/internal/user"
)

// CreateLoop converts a discovered match group into a persisted trade
// loop. The caller names the members; the loop is re-derived from their
// active intents so a stale discovery result can't commit anyone to a
// cycle that no longer closes.
func CreateLoop(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		UserIDs []string `json:"user_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.UserIDs) < 2 || len(req.UserIDs) > 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a trade loop has 2 or 3 members"})
	}
	includesCaller := false
	for _, id := range req.UserIDs {
		if id == uid {
			includesCaller = true
			break
		}
	}
	if !includesCaller {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only create loops you are part of"})
	}

	ctx := context.Background()

	pool, err := loadParticipants(ctx, req.UserIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load member intents"})
	}
	if len(pool) != len(req.UserIDs) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not every member has an active intent"})
	}

	group, ok := findGroup(matching.BuildLoops(pool), req.UserIDs)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "these members' intents do not close a trade loop"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	loopID := uuid.New().String()
	now := time.Now()
	_, err = tx.Exec(ctx,
		`INSERT INTO trade_loops (id, loop_type, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, 'pending', $3, $4, $4)`,
		loopID, string(group.Type), uid, now,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create loop"})
	}

	for _, p := range group.Participants {
		persp, _ := group.PerspectiveFor(p.UserID)
		_, err = tx.Exec(ctx,
			`INSERT INTO trade_participants
			   (id, loop_id, user_id, offers_category, needs_category,
			    delivers_to, receives_from, hours_give, hours_receive, status, delivered)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', FALSE)`,
			uuid.New().String(), loopID, p.UserID, p.Offers, p.Needs,
			persp.DeliversTo.UserID, persp.ReceivesFrom.UserID,
			persp.HoursGive, persp.HoursReceive,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record participant"})
		}
		_, err = tx.Exec(ctx,
			`UPDATE match_intents SET status = 'matched' WHERE user_id = $1 AND status = 'active'`,
			p.UserID,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update intents"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit loop"})
	}

	for _, p := range group.Participants {
		if p.UserID == uid {
			continue
		}
		email, name, err := lookupContact(ctx, p.UserID)
		if err == nil {
			_ = alerts.EnqueueMatchFound(loopID, p.UserID, email, name)
		}
		ref := loopID
		_ = alerts.CreateNotification(p.UserID, "loop:proposed", "New trade loop proposed",
			"You have been matched into a trade loop. Review and accept or decline.", &ref, nil)
	}

	loop, err := loadLoop(ctx, loopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "loop created but could not be loaded"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"loop": loop})
}

// AcceptLoop records the caller's acceptance. Once every participant has
// accepted, the loop goes active and work can start.
func AcceptLoop(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	status, err := lockLoop(ctx, tx, loopID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "loop not found"})
	}
	if status != "pending" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "loop is not awaiting acceptance"})
	}

	res, err := tx.Exec(ctx,
		`UPDATE trade_participants SET status = 'accepted'
		 WHERE loop_id = $1 AND user_id = $2 AND status = 'pending'`,
		loopID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not accept loop"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "you are not a pending participant of this loop"})
	}

	var remaining int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM trade_participants WHERE loop_id = $1 AND status <> 'accepted'`,
		loopID,
	).Scan(&remaining); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check participants"})
	}

	activated := remaining == 0
	if activated {
		_, err = tx.Exec(ctx,
			`UPDATE trade_loops SET status = 'active', updated_at = NOW() WHERE id = $1`, loopID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not activate loop"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
	}

	messaging.BroadcastLoopEvent(loopID, "participant_accepted", echo.Map{"user_id": uid})
	if activated {
		messaging.BroadcastLoopEvent(loopID, "loop_active", echo.Map{"loop_id": loopID})
		notifyLoopMembers(ctx, loopID, "", "loop:active", "Trade loop active",
			"Everyone accepted. Deliver your service, then mark it delivered.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "acceptance recorded",
		"active":  activated,
	})
}

// DeclineLoop rejects the loop for everyone. A loop only works as a
// whole cycle, so one decline kills it; the decliner takes the
// cancellation on their record and everyone else's intents go back into
// the discovery pool.
func DeclineLoop(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	status, err := lockLoop(ctx, tx, loopID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "loop not found"})
	}
	if status != "pending" && status != "active" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "loop can no longer be declined"})
	}

	res, err := tx.Exec(ctx,
		`UPDATE trade_participants SET status = 'declined'
		 WHERE loop_id = $1 AND user_id = $2`,
		loopID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not decline loop"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "you are not a participant of this loop"})
	}

	if _, err := tx.Exec(ctx,
		`UPDATE trade_loops SET status = 'declined', updated_at = NOW() WHERE id = $1`, loopID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update loop"})
	}

	// Other members did nothing wrong: their intents rejoin discovery.
	if _, err := tx.Exec(ctx, `
		UPDATE match_intents SET status = 'active'
		WHERE status = 'matched'
		  AND user_id IN (SELECT user_id FROM trade_participants WHERE loop_id = $1 AND user_id <> $2)
	`, loopID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not restore intents"})
	}

	if err := user.RecordCancelledTrade(ctx, tx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update trade stats"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
	}

	messaging.BroadcastLoopEvent(loopID, "loop_declined", echo.Map{"user_id": uid})
	notifyLoopMembers(ctx, loopID, uid, "loop:declined", "Trade loop declined",
		"A participant declined. Your intent is back in the matching pool.")

	return c.JSON(http.StatusOK, echo.Map{"message": "loop declined"})
}

// DeliverLoop marks the caller's service as delivered. When the last
// participant delivers, the loop completes in one transaction: every
// member earns credits for the hours they gave and spends credits for
// the hours they received, and completion rates move.
func DeliverLoop(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	status, err := lockLoop(ctx, tx, loopID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "loop not found"})
	}
	if status != "active" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "loop is not active"})
	}

	res, err := tx.Exec(ctx,
		`UPDATE trade_participants SET delivered = TRUE
		 WHERE loop_id = $1 AND user_id = $2 AND delivered = FALSE`,
		loopID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record delivery"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "nothing to deliver"})
	}

	var pending int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM trade_participants WHERE loop_id = $1 AND delivered = FALSE`,
		loopID,
	).Scan(&pending); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check deliveries"})
	}

	completed := pending == 0
	if completed {
		if err := settleLoop(ctx, tx, loopID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not settle loop"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
	}

	messaging.BroadcastLoopEvent(loopID, "delivery_recorded", echo.Map{"user_id": uid})
	if completed {
		messaging.BroadcastLoopEvent(loopID, "loop_completed", echo.Map{"loop_id": loopID})
		notifyLoopMembers(ctx, loopID, "", "loop:completed", "Trade loop completed",
			"All services delivered. Credits have been settled. Leave a review for your partners.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "delivery recorded",
		"completed": completed,
	})
}

// settleLoop performs the credit transfers and stat updates for a fully
// delivered loop. Runs inside the delivery transaction.
func settleLoop(ctx context.Context, tx pgx.Tx, loopID string) error {
	rows, err := tx.Query(ctx,
		`SELECT user_id, offers_category, needs_category, hours_give, hours_receive
		 FROM trade_participants WHERE loop_id = $1`, loopID)
	if err != nil {
		return err
	}
	type position struct {
		userID       string
		offers       string
		needs        string
		hoursGive    float64
		hoursReceive float64
	}
	var positions []position
	for rows.Next() {
		var p position
		if err := rows.Scan(&p.userID, &p.offers, &p.needs, &p.hoursGive, &p.hoursReceive); err != nil {
			rows.Close()
			return err
		}
		positions = append(positions, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	table := category.Current()
	for _, p := range positions {
		earn := exchange.CreditsFor(table, p.hoursGive, p.offers)
		spend := exchange.CreditsFor(table, p.hoursReceive, p.needs)
		if err := credits.RecordEarning(ctx, tx, p.userID, loopID, earn,
			fmt.Sprintf("%.1fh of %s delivered", p.hoursGive, p.offers)); err != nil {
			return err
		}
		if err := credits.RecordSpend(ctx, tx, p.userID, loopID, spend,
			fmt.Sprintf("%.1fh of %s received", p.hoursReceive, p.needs)); err != nil {
			return err
		}
		if err := user.RecordCompletedTrade(ctx, tx, p.userID); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE trade_loops SET status = 'completed', updated_at = NOW() WHERE id = $1`, loopID)
	return err
}

// GetMyLoops lists every loop the caller participates in, newest first.
func GetMyLoops(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	statusFilter := c.QueryParam("status")

	query := `
		SELECT l.id FROM trade_loops l
		JOIN trade_participants p ON p.loop_id = l.id
		WHERE p.user_id = $1`
	args := []any{uid}
	if statusFilter != "" {
		query += ` AND l.status = $2`
		args = append(args, statusFilter)
	}
	query += ` ORDER BY l.created_at DESC`

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch loops"})
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse loop record"})
		}
		ids = append(ids, id)
	}
	rows.Close()

	loops := make([]Loop, 0, len(ids))
	for _, id := range ids {
		loop, err := loadLoop(ctx, id)
		if err != nil {
			continue
		}
		loops = append(loops, loop)
	}

	return c.JSON(http.StatusOK, echo.Map{"loops": loops})
}

// GetLoop returns one loop with its participants. Members only.
func GetLoop(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	ctx := context.Background()
	loop, err := loadLoop(ctx, loopID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "loop not found"})
	}
	member := false
	for _, p := range loop.Participants {
		if p.UserID == uid {
			member = true
			break
		}
	}
	if !member {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant of this loop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"loop": loop})
}

// loadParticipants builds the matching pool from members' active
// intents plus their trust scores.
func loadParticipants(ctx context.Context, userIDs []string) ([]matching.Participant, error) {
	rows, err := db.Conn.Query(ctx, `
		SELECT i.user_id, i.offers_category, i.needs_category, u.trust_score
		FROM match_intents i
		JOIN users u ON u.id = i.user_id
		WHERE i.user_id = ANY($1) AND i.status = 'active' AND COALESCE(u.is_active, TRUE)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []matching.Participant
	for rows.Next() {
		var p matching.Participant
		if err := rows.Scan(&p.UserID, &p.Offers, &p.Needs, &p.TrustScore); err != nil {
			return nil, err
		}
		pool = append(pool, p)
	}
	return pool, rows.Err()
}

// findGroup picks the group whose member set matches the requested ids.
func findGroup(groups []matching.Group, userIDs []string) (matching.Group, bool) {
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	for _, g := range groups {
		if len(g.Participants) != len(want) {
			continue
		}
		all := true
		for _, p := range g.Participants {
			if !want[p.UserID] {
				all = false
				break
			}
		}
		if all {
			return g, true
		}
	}
	return matching.Group{}, false
}

func loadLoop(ctx context.Context, loopID string) (Loop, error) {
	var loop Loop
	err := db.Conn.QueryRow(ctx,
		`SELECT id, loop_type, status, created_at, updated_at FROM trade_loops WHERE id = $1`,
		loopID,
	).Scan(&loop.ID, &loop.Type, &loop.Status, &loop.CreatedAt, &loop.UpdatedAt)
	if err != nil {
		return Loop{}, err
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT id, loop_id, user_id, offers_category, needs_category,
		       delivers_to, receives_from, hours_give, hours_receive, status, delivered
		FROM trade_participants WHERE loop_id = $1 ORDER BY user_id
	`, loopID)
	if err != nil {
		return Loop{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var p LoopParticipant
		if err := rows.Scan(&p.ID, &p.LoopID, &p.UserID, &p.Offers, &p.Needs,
			&p.DeliversTo, &p.ReceivesFrom, &p.HoursGive, &p.HoursReceive, &p.Status, &p.Delivered); err != nil {
			return Loop{}, err
		}
		loop.Participants = append(loop.Participants, p)
	}
	return loop, rows.Err()
}

// lockLoop takes a row lock on the loop so concurrent accepts and
// deliveries serialize, and returns its current status.
func lockLoop(ctx context.Context, tx pgx.Tx, loopID string) (string, error) {
	var status string
	err := tx.QueryRow(ctx,
		`SELECT status FROM trade_loops WHERE id = $1 FOR UPDATE`, loopID,
	).Scan(&status)
	return status, err
}

func lookupContact(ctx context.Context, userID string) (email, name string, err error) {
	err = db.Conn.QueryRow(ctx,
		`SELECT email, name FROM users WHERE id = $1`, userID,
	).Scan(&email, &name)
	return email, name, err
}

// notifyLoopMembers fans a notification out to every participant except
// skipUserID. Best-effort: a failed notification never fails the trade.
func notifyLoopMembers(ctx context.Context, loopID, skipUserID, kind, title, body string) {
	rows, err := db.Conn.Query(ctx,
		`SELECT user_id FROM trade_participants WHERE loop_id = $1`, loopID)
	if err != nil {
		return
	}
	defer rows.Close()

	ref := loopID
	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return
		}
		if memberID == skipUserID {
			continue
		}
		_ = alerts.CreateNotification(memberID, kind, title, body, &ref, nil)
		if email, name, err := lookupContact(ctx, memberID); err == nil {
			switch kind {
			case "loop:active":
				_ = alerts.EnqueueLoopAccepted(loopID, memberID, email, name)
			case "loop:completed":
				_ = alerts.EnqueueLoopCompleted(loopID, memberID, email, name)
			}
		}
	}
}
