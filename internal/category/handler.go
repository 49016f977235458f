package category

import (
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// updateMu serializes admin rate updates. Readers go through Current()
// and are never blocked.
var updateMu sync.Mutex

// List returns all categories with their current market rates
func List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"categories": Current().All()})
}

type UpdateRatesRequest struct {
	DemandMultiplier float64 `json:"demand_multiplier"`
	SupplyMultiplier float64 `json:"supply_multiplier"`
}

// UpdateRates lets an admin adjust a category's demand/supply multipliers.
// Values below the floor are clamped here, before they can reach the
// exchange calculator.
func UpdateRates(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing category id"})
	}

	req := new(UpdateRatesRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.DemandMultiplier <= 0 || req.SupplyMultiplier <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipliers must be positive"})
	}

	updateMu.Lock()
	defer updateMu.Unlock()

	next, ok := Current().WithRates(id, req.DemandMultiplier, req.SupplyMultiplier)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}
	swap(next)

	updated, _ := next.Get(id)
	log.Printf("[category] rates updated id=%s demand=%.2f supply=%.2f", id, updated.DemandMultiplier, updated.SupplyMultiplier)

	return c.JSON(http.StatusOK, echo.Map{
		"category": updated,
		"message":  "rates updated",
	})
}
