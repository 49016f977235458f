package trade

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/user"
)

// CreateReview records post-trade feedback from one participant of a
// completed loop about another. The rating folds into the reviewee's
// trust score, which every future match score reads.
func CreateReview(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	if req.RevieweeID == "" || req.RevieweeID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reviewee must be another participant"})
	}

	ctx := context.Background()

	var status string
	if err := db.Conn.QueryRow(ctx,
		`SELECT status FROM trade_loops WHERE id = $1`, loopID,
	).Scan(&status); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "loop not found"})
	}
	if status != "completed" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reviews open once the loop is completed"})
	}

	var members int
	if err := db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM trade_participants WHERE loop_id = $1 AND user_id = ANY($2)`,
		loopID, []string{uid, req.RevieweeID},
	).Scan(&members); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check participants"})
	}
	if members != 2 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "both reviewer and reviewee must be loop participants"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	reviewID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO reviews (id, loop_id, reviewer_id, reviewee_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reviewID, loopID, uid, req.RevieweeID, req.Rating, strings.TrimSpace(req.Comment),
	)
	if err != nil {
		// unique (loop_id, reviewer_id, reviewee_id)
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already reviewed this participant"})
	}

	if err := user.ApplyReviewRating(ctx, tx, req.RevieweeID, req.Rating); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not apply rating"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit review"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"review_id": reviewID, "message": "review recorded"})
}

// GetLoopReviews lists the reviews left on a loop. Participants only.
func GetLoopReviews(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	loopID := c.Param("id")

	ctx := context.Background()

	var member int
	if err := db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM trade_participants WHERE loop_id = $1 AND user_id = $2`,
		loopID, uid,
	).Scan(&member); err != nil || member == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant of this loop"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id, loop_id, reviewer_id, reviewee_id, rating, COALESCE(comment, ''), created_at
		 FROM reviews WHERE loop_id = $1 ORDER BY created_at`,
		loopID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch reviews"})
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.LoopID, &r.ReviewerID, &r.RevieweeID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse review record"})
		}
		reviews = append(reviews, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
