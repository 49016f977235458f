package trade

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/category"
	"github.com/Xploreicon/timebankng/internal/db"
	"github.com/Xploreicon/timebankng/internal/scoring"
)

// CreateOffering lists a new service for time-credit trading
func CreateOffering(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Category        string  `json:"category"`
		Title           string  `json:"title"`
		Description     string  `json:"description"`
		SkillLevel      string  `json:"skill_level"`
		AvgDeliveryDays float64 `json:"avg_delivery_days"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and category are required"})
	}
	if _, ok := category.Current().Get(req.Category); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}
	switch req.SkillLevel {
	case scoring.SkillBeginner, scoring.SkillIntermediate, scoring.SkillExpert:
	case "":
		req.SkillLevel = scoring.SkillIntermediate
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skill_level must be beginner, intermediate or expert"})
	}
	if req.AvgDeliveryDays <= 0 {
		req.AvgDeliveryDays = 7
	}

	offeringID := uuid.New().String()
	_, err := db.Conn.Exec(
		context.Background(),
		`INSERT INTO offerings (id, user_id, category, title, description, skill_level, avg_delivery_days, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8)`,
		offeringID, uid, req.Category, req.Title, req.Description, req.SkillLevel, req.AvgDeliveryDays, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create offering"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"offering_id": offeringID,
		"message":     "offering created successfully",
	})
}

// GetAllOfferings returns active offerings for discovery, with optional
// search and filters
func GetAllOfferings(c echo.Context) error {
	q := c.QueryParam("q")
	cat := c.QueryParam("category")
	skill := c.QueryParam("skill_level")
	limit := 20
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	query := `SELECT id, user_id, category, title, COALESCE(description, ''), skill_level, avg_delivery_days, success_rate, status, created_at
              FROM offerings WHERE status = 'active'`
	var args []any
	idx := 1
	if q != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", idx, idx+1)
		qArg := "%" + q + "%"
		args = append(args, qArg, qArg)
		idx += 2
	}
	if cat != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, cat)
		idx++
	}
	if skill != "" {
		query += fmt.Sprintf(" AND skill_level = $%d", idx)
		args = append(args, skill)
		idx++
	}

	switch c.QueryParam("sort") {
	case "oldest":
		query += " ORDER BY created_at ASC"
	case "success_desc":
		query += " ORDER BY success_rate DESC"
	default:
		query += " ORDER BY created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch offerings"})
	}
	defer rows.Close()

	var offerings []Offering
	for rows.Next() {
		var o Offering
		if err := rows.Scan(&o.ID, &o.UserID, &o.Category, &o.Title, &o.Description, &o.SkillLevel, &o.AvgDeliveryDays, &o.SuccessRate, &o.Status, &o.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse offering record"})
		}
		offerings = append(offerings, o)
	}

	return c.JSON(http.StatusOK, echo.Map{"offerings": offerings})
}

// GetUserOfferings returns the authenticated user's offerings
func GetUserOfferings(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(
		context.Background(),
		`SELECT id, user_id, category, title, COALESCE(description, ''), skill_level, avg_delivery_days, success_rate, status, created_at
		 FROM offerings WHERE user_id = $1 AND status != 'removed' ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user offerings"})
	}
	defer rows.Close()

	var offerings []Offering
	for rows.Next() {
		var o Offering
		if err := rows.Scan(&o.ID, &o.UserID, &o.Category, &o.Title, &o.Description, &o.SkillLevel, &o.AvgDeliveryDays, &o.SuccessRate, &o.Status, &o.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse offering record"})
		}
		offerings = append(offerings, o)
	}

	return c.JSON(http.StatusOK, echo.Map{"offerings": offerings})
}

func validCategoryID(id string) bool {
	_, ok := category.Current().Get(strings.TrimSpace(id))
	return ok
}
