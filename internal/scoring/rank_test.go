package scoring

import (
	"testing"

	"github.com/Xploreicon/timebankng/internal/category"
)

func TestRankSortsDescending(t *testing.T) {
	s := NewScorer(category.Default())
	viewer := strongProfile("viewer", "Lagos", "legal")
	viewerSvc := offering("viewer", "legal", SkillExpert, 3)

	candidates := []Candidate{
		{Profile: Profile{ID: "weak", City: "Jos", TrustScore: 20, CancellationRate: 40, ResponseTimeHours: 48}, Offering: offering("weak", "cleaning", SkillBeginner, 20)},
		{Profile: strongProfile("strong", "Lagos", "tech"), Offering: offering("strong", "tech", SkillExpert, 3)},
		{Profile: Profile{ID: "mid", City: "Abuja", TrustScore: 60, CompletionRate: 70, ResponseTimeHours: 5, TotalTrades: 6}, Offering: offering("mid", "marketing", SkillIntermediate, 6)},
	}

	ranked := s.RankAt(testClock, viewer, viewerSvc, candidates)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d candidates, want 3", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score.TotalScore > ranked[i-1].Score.TotalScore {
			t.Errorf("ranking not descending at %d: %d > %d", i, ranked[i].Score.TotalScore, ranked[i-1].Score.TotalScore)
		}
	}
	if ranked[0].Profile.ID != "strong" {
		t.Errorf("best candidate = %s, want strong", ranked[0].Profile.ID)
	}
}

func TestRankStableOnTies(t *testing.T) {
	s := NewScorer(category.Default())
	viewer := strongProfile("viewer", "Lagos", "legal")
	viewerSvc := offering("viewer", "legal", SkillExpert, 3)

	// Identical candidates except for id: scores tie, discovery order must hold.
	twinA := Candidate{Profile: strongProfile("twin-a", "Lagos", "tech"), Offering: offering("twin-a", "tech", SkillExpert, 3)}
	twinB := Candidate{Profile: strongProfile("twin-b", "Lagos", "tech"), Offering: offering("twin-b", "tech", SkillExpert, 3)}

	ranked := s.RankAt(testClock, viewer, viewerSvc, []Candidate{twinA, twinB})
	if ranked[0].Profile.ID != "twin-a" || ranked[1].Profile.ID != "twin-b" {
		t.Errorf("tie order changed: got %s then %s", ranked[0].Profile.ID, ranked[1].Profile.ID)
	}
}

func TestRankEmptyInput(t *testing.T) {
	s := NewScorer(category.Default())
	ranked := s.RankAt(testClock, Profile{}, Offering{}, nil)
	if len(ranked) != 0 {
		t.Errorf("ranked %d candidates from empty input", len(ranked))
	}
}
