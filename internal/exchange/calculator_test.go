package exchange

import (
	"math"
	"testing"

	"github.com/Xploreicon/timebankng/internal/category"
)

func TestCreditsForMarketAdjusted(t *testing.T) {
	tbl := category.Default()

	// legal: 10 * 1.5 / 0.8, tech: 8 * 1.4 / 1.0
	if got := CreditsFor(tbl, 1, "legal"); got != 18.75 {
		t.Errorf("CreditsFor(1, legal) = %v, want 18.75", got)
	}
	if got := CreditsFor(tbl, 1, "tech"); got != 11.2 {
		t.Errorf("CreditsFor(1, tech) = %v, want 11.2", got)
	}
	if got := CreditsFor(tbl, 3, "tech"); got != 33.6 {
		t.Errorf("CreditsFor(3, tech) = %v, want 33.6", got)
	}
}

func TestRateLegalToTech(t *testing.T) {
	got := Rate(category.Default(), "legal", "tech")
	if got != 1.67 {
		t.Errorf("Rate(legal, tech) = %v, want 1.67", got)
	}
}

func TestUnknownCategoryFallsBackToDefaultRate(t *testing.T) {
	tbl := category.Default()
	if got := CreditsFor(tbl, 2, "xyz"); got != 10 {
		t.Errorf("CreditsFor(2, xyz) = %v, want 10 (default rate)", got)
	}
	// both sides unknown: one-for-one
	if got := Rate(tbl, "xyz", "abc"); got != 1 {
		t.Errorf("Rate(xyz, abc) = %v, want 1", got)
	}
}

func TestRateSymmetryAllPairs(t *testing.T) {
	tbl := category.Default()
	cats := tbl.All()
	for _, a := range cats {
		for _, b := range cats {
			fwd := Rate(tbl, a.ID, b.ID)
			rev := Rate(tbl, b.ID, a.ID)
			if math.Abs(fwd*rev-1) > 0.05 {
				t.Errorf("Rate(%s,%s)*Rate(%s,%s) = %v, want ~1", a.ID, b.ID, b.ID, a.ID, fwd*rev)
			}
		}
	}
}

func TestComputeDerivesBothSides(t *testing.T) {
	tbl := category.Default()
	ex := Compute(tbl, 2, "legal", "tech")

	if ex.HoursFrom != 2 {
		t.Errorf("HoursFrom = %v, want 2", ex.HoursFrom)
	}
	if ex.Rate != 1.67 {
		t.Errorf("Rate = %v, want 1.67", ex.Rate)
	}
	if ex.HoursTo != 3.34 {
		t.Errorf("HoursTo = %v, want 3.34", ex.HoursTo)
	}
	if ex.CreditsFrom != 37.5 {
		t.Errorf("CreditsFrom = %v, want 37.5", ex.CreditsFrom)
	}
	// 3.34 * 11.2 = 37.408 -> 37.41
	if ex.CreditsTo != 37.41 {
		t.Errorf("CreditsTo = %v, want 37.41", ex.CreditsTo)
	}
}

func TestCreditsRoundedToTwoDecimals(t *testing.T) {
	tbl := category.Default()
	got := CreditsFor(tbl, 1.333, "tech") // 1.333 * 11.2 = 14.9296
	if got != 14.93 {
		t.Errorf("CreditsFor(1.333, tech) = %v, want 14.93", got)
	}
}
