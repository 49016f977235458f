package matching

import "testing"

func participant(user, offers, needs string, trust float64) Participant {
	return Participant{UserID: user, Offers: offers, Needs: needs, TrustScore: trust}
}

func TestTwoWayLoop(t *testing.T) {
	groups := BuildLoops([]Participant{
		participant("u1", "legal", "tech", 80),
		participant("u2", "tech", "legal", 70),
		participant("u3", "catering", "beauty", 60), // no counterpart
	})

	if len(groups) != 1 {
		t.Fatalf("built %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Type != TwoWay {
		t.Errorf("group type = %s, want %s", g.Type, TwoWay)
	}
	if g.Status != GroupPending {
		t.Errorf("group status = %s, want %s", g.Status, GroupPending)
	}
	if len(g.Participants) != 2 {
		t.Fatalf("group has %d participants, want 2", len(g.Participants))
	}
}

func TestThreeWayLoopRegardlessOfOrdering(t *testing.T) {
	p1 := participant("p1", "legal", "tech", 90)
	p2 := participant("p2", "tech", "creative", 70)
	p3 := participant("p3", "creative", "legal", 50)

	orderings := [][]Participant{
		{p1, p2, p3},
		{p1, p3, p2},
		{p2, p1, p3},
		{p2, p3, p1},
		{p3, p1, p2},
		{p3, p2, p1},
	}

	var canonical []string
	for _, pool := range orderings {
		groups := BuildLoops(pool)
		if len(groups) != 1 {
			t.Fatalf("built %d groups, want exactly 1 three_way", len(groups))
		}
		g := groups[0]
		if g.Type != ThreeWay {
			t.Fatalf("group type = %s, want %s", g.Type, ThreeWay)
		}
		if len(g.Participants) != 3 {
			t.Fatalf("group has %d participants, want 3", len(g.Participants))
		}

		ids := []string{g.Participants[0].UserID, g.Participants[1].UserID, g.Participants[2].UserID}
		if canonical == nil {
			canonical = ids
		} else {
			for i := range ids {
				if ids[i] != canonical[i] {
					t.Fatalf("participant order depends on input ordering: %v vs %v", ids, canonical)
				}
			}
		}
	}
}

func TestLoopClosure(t *testing.T) {
	pool := []Participant{
		participant("a", "legal", "tech", 80),
		participant("b", "tech", "legal", 75),
		participant("c", "tech", "creative", 60),
		participant("d", "creative", "legal", 50),
		participant("e", "catering", "events", 40),
		participant("f", "events", "catering", 90),
	}

	groups := BuildLoops(pool)
	if len(groups) == 0 {
		t.Fatal("expected loops from pool")
	}
	for _, g := range groups {
		if len(g.Participants) < 2 || len(g.Participants) > 3 {
			t.Fatalf("group %s has %d participants", g.ID, len(g.Participants))
		}
		for i, p := range g.Participants {
			next := g.Participants[(i+1)%len(g.Participants)]
			if p.Offers != next.Needs {
				t.Errorf("group %s broken at %d: %s offers %s but %s needs %s",
					g.ID, i, p.UserID, p.Offers, next.UserID, next.Needs)
			}
		}
	}
}

func TestNoSelfPairing(t *testing.T) {
	groups := BuildLoops([]Participant{
		participant("u1", "legal", "tech", 80),
		participant("u1", "tech", "legal", 80),
	})
	if len(groups) != 0 {
		t.Errorf("built %d groups pairing a user with themselves", len(groups))
	}
}

func TestDuplicateLoopsSuppressed(t *testing.T) {
	// Same member set reachable through multiple index combinations
	// must produce a single group.
	a := participant("a", "legal", "tech", 80)
	b := participant("b", "tech", "legal", 70)
	groups := BuildLoops([]Participant{a, b, a, b})
	if len(groups) != 1 {
		t.Errorf("built %d groups, want 1 after dedup", len(groups))
	}
}

func TestEmptyAndSingleton(t *testing.T) {
	if groups := BuildLoops(nil); len(groups) != 0 {
		t.Errorf("empty pool built %d groups", len(groups))
	}
	if groups := BuildLoops([]Participant{participant("u1", "legal", "tech", 80)}); len(groups) != 0 {
		t.Errorf("singleton pool built %d groups", len(groups))
	}
}

func TestHoursForTrustMapping(t *testing.T) {
	cases := []struct {
		trust float64
		want  float64
	}{
		{100, 8},
		{90, 7.5},
		{40, 5},
		{0, 3},
		{-100, 1}, // floored
	}
	for _, tc := range cases {
		if got := HoursFor(tc.trust); got != tc.want {
			t.Errorf("HoursFor(%v) = %v, want %v", tc.trust, got, tc.want)
		}
	}
}

func TestPerspectiveFor(t *testing.T) {
	p1 := participant("p1", "legal", "tech", 90)
	p2 := participant("p2", "tech", "creative", 70)
	p3 := participant("p3", "creative", "legal", 50)

	groups := BuildLoops([]Participant{p1, p2, p3})
	if len(groups) != 1 {
		t.Fatalf("built %d groups, want 1", len(groups))
	}
	g := groups[0]

	view, ok := g.PerspectiveFor("p1")
	if !ok {
		t.Fatal("p1 should be in the loop")
	}
	// p1 offers legal; p3 needs legal.
	if view.DeliversTo.UserID != "p3" {
		t.Errorf("p1 delivers to %s, want p3", view.DeliversTo.UserID)
	}
	// p2 offers tech; p1 needs tech.
	if view.ReceivesFrom.UserID != "p2" {
		t.Errorf("p1 receives from %s, want p2", view.ReceivesFrom.UserID)
	}
	if view.HoursGive != HoursFor(50) {
		t.Errorf("hours give = %v, want %v", view.HoursGive, HoursFor(50))
	}
	if view.HoursReceive != HoursFor(90) {
		t.Errorf("hours receive = %v, want %v", view.HoursReceive, HoursFor(90))
	}

	if _, ok := g.PerspectiveFor("stranger"); ok {
		t.Error("perspective for a non-member should be skipped")
	}
}
