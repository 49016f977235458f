package matching

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/category"
	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/scoring"
	"github.com/Xploreicon/timebankng/internal/user"
)

// DiscoveredLoop is one candidate loop from the viewer's side: the loop
// itself, who the viewer serves and is served by, and the match score
// against the partner the viewer would deliver to.
type DiscoveredLoop struct {
	Group       Group              `json:"group"`
	Perspective Perspective        `json:"perspective"`
	Score       scoring.MatchScore `json:"score"`
}

// Discover finds every 2-way and 3-way loop the caller's active intent
// closes against the rest of the pool, scored and ranked. The score is
// viewer-relative: it rates the viewer against the partner they would
// deliver to, since that is the relationship they commit hours to.
func Discover(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx := context.Background()

	pool, err := activePool(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load matching pool"})
	}
	hasIntent := false
	for _, p := range pool {
		if p.UserID == uid {
			hasIntent = true
			break
		}
	}
	if !hasIntent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "register an intent before discovering matches"})
	}

	var mine []DiscoveredLoop
	var partnerIDs []string
	groups := BuildLoops(pool)
	for _, g := range groups {
		persp, ok := g.PerspectiveFor(uid)
		if !ok {
			continue
		}
		mine = append(mine, DiscoveredLoop{Group: g, Perspective: persp})
		partnerIDs = append(partnerIDs, persp.DeliversTo.UserID)
	}
	if len(mine) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"matches": []DiscoveredLoop{}})
	}

	profiles, err := user.LoadScoringViews(ctx, append(partnerIDs, uid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load profiles"})
	}
	viewer, ok := profiles[uid]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}

	var usable []DiscoveredLoop
	for _, m := range mine {
		if _, ok := profiles[m.Perspective.DeliversTo.UserID]; ok {
			usable = append(usable, m)
		}
	}
	if len(usable) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"matches": []DiscoveredLoop{}})
	}

	// One active intent per member, so the viewer offers the same
	// category in every loop.
	viewerSvc := offeringView(ctx, uid, usable[0].Perspective.Viewer.Offers)

	candidates := make([]scoring.Candidate, len(usable))
	pending := make(map[string][]int, len(usable))
	for i, m := range usable {
		pid := m.Perspective.DeliversTo.UserID
		candidates[i] = scoring.Candidate{
			Profile:  profiles[pid],
			Offering: offeringView(ctx, pid, m.Perspective.DeliversTo.Offers),
		}
		pending[pid] = append(pending[pid], i)
	}

	scorer := scoring.NewScorer(category.Current())
	ranked := scorer.Rank(viewer, viewerSvc, candidates)

	// A partner appearing in several loops yields identical candidates,
	// which rank as ties in discovery order; consuming pending indices
	// front-first keeps each score paired with its loop.
	scored := make([]DiscoveredLoop, 0, len(ranked))
	for _, rc := range ranked {
		idxs := pending[rc.Profile.ID]
		m := usable[idxs[0]]
		pending[rc.Profile.ID] = idxs[1:]
		m.Score = rc.Score
		scored = append(scored, m)
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return c.JSON(http.StatusOK, echo.Map{"matches": scored})
}

// ScoreMatch rates the caller against one specific partner, using the
// categories each side would trade. Categories default to each side's
// active intent when not supplied.
func ScoreMatch(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		PartnerID       string `json:"partner_id"`
		Category        string `json:"category"`
		PartnerCategory string `json:"partner_category"`
	}
	if err := c.Bind(&req); err != nil || req.PartnerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partner_id is required"})
	}
	if req.PartnerID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot score a match with yourself"})
	}

	ctx := context.Background()

	viewer, err := user.LoadScoringView(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	partner, err := user.LoadScoringView(ctx, req.PartnerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
	}

	catA := req.Category
	if catA == "" {
		catA = intentOffer(ctx, uid, viewer.Category)
	}
	catB := req.PartnerCategory
	if catB == "" {
		catB = intentOffer(ctx, req.PartnerID, partner.Category)
	}

	scorer := scoring.NewScorer(category.Current())
	score := scorer.Score(viewer, partner,
		offeringView(ctx, uid, catA),
		offeringView(ctx, req.PartnerID, catB),
	)

	return c.JSON(http.StatusOK, echo.Map{"score": score})
}

// activePool loads every active intent joined with the owner's trust
// score, forming the loop-search input.
func activePool(ctx context.Context) ([]Participant, error) {
	rows, err := db.Conn.Query(ctx, `
		SELECT i.user_id, i.offers_category, i.needs_category, u.trust_score
		FROM match_intents i
		JOIN users u ON u.id = i.user_id
		WHERE i.status = 'active' AND COALESCE(u.is_active, TRUE)
		ORDER BY i.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.UserID, &p.Offers, &p.Needs, &p.TrustScore); err != nil {
			return nil, err
		}
		pool = append(pool, p)
	}
	return pool, rows.Err()
}

// offeringView resolves the offering backing a user's category for
// scoring, with a neutral fallback when they have none listed yet.
func offeringView(ctx context.Context, userID, cat string) scoring.Offering {
	view := scoring.Offering{
		UserID:          userID,
		Category:        cat,
		SkillLevel:      scoring.SkillIntermediate,
		AvgDeliveryDays: 7,
	}
	_ = db.Conn.QueryRow(ctx, `
		SELECT id, skill_level, avg_delivery_days, success_rate
		FROM offerings
		WHERE user_id = $1 AND category = $2 AND status = 'active'
		ORDER BY created_at DESC LIMIT 1
	`, userID, cat).Scan(&view.ID, &view.SkillLevel, &view.AvgDeliveryDays, &view.SuccessRate)
	return view
}

// intentOffer returns what the user currently offers, falling back to
// their profile category.
func intentOffer(ctx context.Context, userID, fallback string) string {
	cat := fallback
	_ = db.Conn.QueryRow(ctx,
		`SELECT offers_category FROM match_intents WHERE user_id = $1 AND status = 'active' LIMIT 1`,
		userID,
	).Scan(&cat)
	return cat
}
