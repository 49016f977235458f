package scoring

import (
	"sort"
	"time"
)

// Candidate is one (user, offering) combination proposed to a viewer.
type Candidate struct {
	Profile  Profile  `json:"profile"`
	Offering Offering `json:"offering"`
}

// RankedCandidate is a candidate with its computed score.
type RankedCandidate struct {
	Candidate
	Score MatchScore `json:"score"`
}

// Rank scores every candidate against the viewer and sorts by total
// score descending. The sort is stable: ties keep discovery order.
// Pagination is the caller's concern.
func (s *Scorer) Rank(viewer Profile, viewerSvc Offering, candidates []Candidate) []RankedCandidate {
	return s.RankAt(time.Now(), viewer, viewerSvc, candidates)
}

// RankAt is Rank with an explicit clock.
func (s *Scorer) RankAt(now time.Time, viewer Profile, viewerSvc Offering, candidates []Candidate) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		ranked = append(ranked, RankedCandidate{
			Candidate: cand,
			Score:     s.ScoreAt(now, viewer, cand.Profile, viewerSvc, cand.Offering),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.TotalScore > ranked[j].Score.TotalScore
	})
	return ranked
}
