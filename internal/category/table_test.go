package category

import "testing"

func TestDefaultTableAnchors(t *testing.T) {
	tbl := Default()

	legal, ok := tbl.Get("legal")
	if !ok {
		t.Fatal("legal category missing from default table")
	}
	if legal.BaseRate != 10 || legal.DemandMultiplier != 1.5 || legal.SupplyMultiplier != 0.8 {
		t.Errorf("legal rates = %v/%v/%v, want 10/1.5/0.8", legal.BaseRate, legal.DemandMultiplier, legal.SupplyMultiplier)
	}

	tech, ok := tbl.Get("tech")
	if !ok {
		t.Fatal("tech category missing from default table")
	}
	if tech.BaseRate != 8 || tech.DemandMultiplier != 1.4 || tech.SupplyMultiplier != 1.0 {
		t.Errorf("tech rates = %v/%v/%v, want 8/1.4/1.0", tech.BaseRate, tech.DemandMultiplier, tech.SupplyMultiplier)
	}

	if n := len(tbl.All()); n < 14 || n > 18 {
		t.Errorf("default table has %d categories, want 14-18", n)
	}
}

func TestMultipliersClampedAtBoundary(t *testing.T) {
	cases := []struct {
		name           string
		demand, supply float64
		wantD, wantS   float64
	}{
		{"zero supply", 1.2, 0, 1.2, MinMultiplier},
		{"negative demand", -3, 1.0, MinMultiplier, 1.0},
		{"both under floor", 0.1, 0.2, MinMultiplier, MinMultiplier},
		{"valid untouched", 1.5, 0.8, 1.5, 0.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, ok := Default().WithRates("tech", tc.demand, tc.supply)
			if !ok {
				t.Fatal("tech category missing")
			}
			c, _ := next.Get("tech")
			if c.DemandMultiplier != tc.wantD || c.SupplyMultiplier != tc.wantS {
				t.Errorf("got %v/%v, want %v/%v", c.DemandMultiplier, c.SupplyMultiplier, tc.wantD, tc.wantS)
			}
		})
	}
}

func TestWithRatesLeavesOriginalUntouched(t *testing.T) {
	orig := Default()
	next, ok := orig.WithRates("legal", 2.0, 1.0)
	if !ok {
		t.Fatal("legal category missing")
	}

	before, _ := orig.Get("legal")
	after, _ := next.Get("legal")
	if before.DemandMultiplier != 1.5 {
		t.Errorf("original table mutated: demand = %v", before.DemandMultiplier)
	}
	if after.DemandMultiplier != 2.0 {
		t.Errorf("new table demand = %v, want 2.0", after.DemandMultiplier)
	}
}

func TestWithRatesUnknownCategory(t *testing.T) {
	if _, ok := Default().WithRates("xyz", 1.0, 1.0); ok {
		t.Error("expected ok=false for unknown category")
	}
}

func TestComplementaryIsSymmetric(t *testing.T) {
	tbl := Default()
	if !tbl.Complementary("legal", "tech") {
		t.Error("legal and tech should be complementary")
	}
	if !tbl.Complementary("tech", "legal") {
		t.Error("complementary check should work in both directions")
	}
	if tbl.Complementary("legal", "beauty") {
		t.Error("legal and beauty should not be complementary")
	}
	if tbl.Complementary("legal", "xyz") {
		t.Error("unknown category should never be complementary")
	}
}

func TestCurrentSnapshotSwap(t *testing.T) {
	Init()
	before := Current()

	next, _ := before.WithRates("tech", 1.8, 1.0)
	swap(next)

	after := Current()
	if after == before {
		t.Fatal("Current() did not observe the swapped table")
	}
	c, _ := after.Get("tech")
	if c.DemandMultiplier != 1.8 {
		t.Errorf("swapped table demand = %v, want 1.8", c.DemandMultiplier)
	}

	// restore default for other tests
	Init()
}
