package trade

import (
	"testing"

	"github.com/Xploreicon/timebankng/internal/matching"
)

func TestFindGroupPicksExactMemberSet(t *testing.T) {
	pool := []matching.Participant{
		{UserID: "ada", Offers: "legal", Needs: "tech", TrustScore: 80},
		{UserID: "bayo", Offers: "tech", Needs: "legal", TrustScore: 70},
		{UserID: "chika", Offers: "tech", Needs: "legal", TrustScore: 60},
	}
	groups := matching.BuildLoops(pool)
	if len(groups) != 2 {
		t.Fatalf("expected 2 candidate loops, got %d", len(groups))
	}

	g, ok := findGroup(groups, []string{"ada", "chika"})
	if !ok {
		t.Fatal("expected to find the ada/chika loop")
	}
	ids := map[string]bool{}
	for _, p := range g.Participants {
		ids[p.UserID] = true
	}
	if !ids["ada"] || !ids["chika"] || len(ids) != 2 {
		t.Fatalf("wrong members selected: %v", ids)
	}
}

func TestFindGroupRejectsNonClosingSet(t *testing.T) {
	pool := []matching.Participant{
		{UserID: "ada", Offers: "legal", Needs: "tech", TrustScore: 80},
		{UserID: "bayo", Offers: "tech", Needs: "legal", TrustScore: 70},
	}
	groups := matching.BuildLoops(pool)

	if _, ok := findGroup(groups, []string{"ada", "emeka"}); ok {
		t.Fatal("should not match a set containing a non-member")
	}
	if _, ok := findGroup(groups, []string{"ada"}); ok {
		t.Fatal("should not match a smaller set")
	}
}
