package exchange

import (
	"log"
	"math"

	"github.com/Xploreicon/timebankng/internal/category"
)

// DefaultRate is the credits-per-hour fallback for categories missing
// from the rate table. Stale category data degrades to this instead of
// failing the request.
const DefaultRate = 5.0

// Exchange describes a fair hour-for-hour trade between two categories.
type Exchange struct {
	HoursFrom    float64 `json:"hours_from"`
	HoursTo      float64 `json:"hours_to"`
	Rate         float64 `json:"rate"`
	CreditsFrom  float64 `json:"credits_from"`
	CreditsTo    float64 `json:"credits_to"`
	FromCategory string  `json:"from_category"`
	ToCategory   string  `json:"to_category"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// hourlyCredits is the market-adjusted credit value of one hour in a
// category: baseRate * demand / supply. Unknown categories fall back to
// DefaultRate with a warning.
func hourlyCredits(t *category.Table, id string) float64 {
	c, ok := t.Get(id)
	if !ok {
		log.Printf("[exchange] WARN unknown category %q, using default rate %.1f", id, DefaultRate)
		return DefaultRate
	}
	return c.BaseRate * c.DemandMultiplier / c.SupplyMultiplier
}

// CreditsFor converts hours of work in a category to time credits,
// rounded to 2 decimal places.
func CreditsFor(t *category.Table, hours float64, categoryID string) float64 {
	return round2(hours * hourlyCredits(t, categoryID))
}

// Rate returns how many hours of category "to" one hour of category
// "from" is worth, rounded to 2 decimal places.
func Rate(t *category.Table, from, to string) float64 {
	return round2(CreditsFor(t, 1, from) / CreditsFor(t, 1, to))
}

// Compute derives the fair trade for hours of "from" work against "to"
// work, with credit values on both sides for display.
func Compute(t *category.Table, hours float64, from, to string) Exchange {
	rate := Rate(t, from, to)
	hoursTo := round2(hours * rate)
	return Exchange{
		HoursFrom:    hours,
		HoursTo:      hoursTo,
		Rate:         rate,
		CreditsFrom:  CreditsFor(t, hours, from),
		CreditsTo:    CreditsFor(t, hoursTo, to),
		FromCategory: from,
		ToCategory:   to,
	}
}
