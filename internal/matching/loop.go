package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ParticipantStatus tracks a member's accept/decline state within a loop.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// GroupType tags the loop length.
type GroupType string

const (
	TwoWay   GroupType = "two_way"
	ThreeWay GroupType = "three_way"
)

// GroupStatus is the overall lifecycle state of a candidate loop.
type GroupStatus string

const (
	GroupPending   GroupStatus = "pending"
	GroupConverted GroupStatus = "converted"
	GroupDeclined  GroupStatus = "declined"
	GroupExpired   GroupStatus = "expired"
)

// Participant is one position in a candidate trade loop: a user offering
// one category and needing another.
type Participant struct {
	UserID     string            `json:"user_id"`
	Offers     string            `json:"offers"`
	Needs      string            `json:"needs"`
	TrustScore float64           `json:"trust_score"`
	Status     ParticipantStatus `json:"status"`
}

// Group is a closed loop of 2 or 3 participants. Participants are stored
// in cycle order: each delivers their offered category to the next one,
// and the last delivers to the first.
type Group struct {
	ID           string        `json:"id"`
	Type         GroupType     `json:"type"`
	Status       GroupStatus   `json:"status"`
	Participants []Participant `json:"participants"`
}

// hoursBaseline anchors the trust-to-commitment mapping: a 40-trust
// partner receives 5 hours, a 100-trust partner 8.
const hoursBaseline = 4

// HoursFor maps a recipient's trust score to the hours committed to
// them, floored at 1. Higher-trust partners are allocated more hours.
func HoursFor(trustScore float64) float64 {
	h := trustScore/20 + hoursBaseline - 1
	if h < 1 {
		return 1
	}
	return h
}

// BuildLoops finds every closed 2-way and 3-way loop in a pool of
// participants and materializes pending match groups. Output is
// canonical: each group starts at its lexicographically smallest user
// id, so input ordering never changes the result beyond group order.
func BuildLoops(participants []Participant) []Group {
	var groups []Group
	seen := make(map[string]bool)

	add := func(cycle []Participant, t GroupType) {
		key := cycleKey(cycle)
		if seen[key] {
			return
		}
		seen[key] = true
		cycle = canonicalize(cycle)
		for i := range cycle {
			cycle[i].Status = ParticipantPending
		}
		groups = append(groups, Group{
			ID:           uuid.New().String(),
			Type:         t,
			Status:       GroupPending,
			Participants: cycle,
		})
	}

	n := len(participants)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := participants[i], participants[j]
			if a.UserID == b.UserID {
				continue
			}
			if a.Offers == b.Needs && b.Offers == a.Needs {
				add([]Participant{a, b}, TwoWay)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := participants[i], participants[j], participants[k]
				if a.UserID == b.UserID || a.UserID == c.UserID || b.UserID == c.UserID {
					continue
				}
				if cycle, ok := rotation(a, b, c); ok {
					add(cycle, ThreeWay)
				}
			}
		}
	}

	return groups
}

// rotation orders three participants into a delivery cycle where each
// one's offer satisfies the next one's need, if such an ordering exists.
func rotation(a, b, c Participant) ([]Participant, bool) {
	orderings := [][]Participant{
		{a, b, c},
		{a, c, b},
	}
	for _, cycle := range orderings {
		if closed(cycle) {
			return cycle, true
		}
	}
	return nil, false
}

func closed(cycle []Participant) bool {
	for i := range cycle {
		next := cycle[(i+1)%len(cycle)]
		if cycle[i].Offers != next.Needs {
			return false
		}
	}
	return true
}

// cycleKey identifies a loop by its member set, not its ordering.
func cycleKey(cycle []Participant) string {
	ids := make([]string, len(cycle))
	for i, p := range cycle {
		ids[i] = p.UserID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// canonicalize rotates the cycle so the smallest user id comes first.
func canonicalize(cycle []Participant) []Participant {
	start := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i].UserID < cycle[start].UserID {
			start = i
		}
	}
	out := make([]Participant, 0, len(cycle))
	for i := 0; i < len(cycle); i++ {
		out = append(out, cycle[(start+i)%len(cycle)])
	}
	return out
}

// Perspective frames a loop from one participant's point of view.
type Perspective struct {
	Viewer       Participant `json:"viewer"`
	DeliversTo   Participant `json:"delivers_to"`
	ReceivesFrom Participant `json:"receives_from"`
	HoursGive    float64     `json:"hours_give"`
	HoursReceive float64     `json:"hours_receive"`
}

// PerspectiveFor computes who the viewer serves and is served by within
// the group, with hours each way. Returns false when the viewer is not a
// member: that group belongs to other viewers and is simply skipped.
func (g Group) PerspectiveFor(viewerID string) (Perspective, bool) {
	idx := -1
	for i, p := range g.Participants {
		if p.UserID == viewerID {
			idx = i
			break
		}
	}
	if idx < 0 || len(g.Participants) < 2 {
		return Perspective{}, false
	}

	n := len(g.Participants)
	viewer := g.Participants[idx]
	deliversTo := g.Participants[(idx+1)%n]
	receivesFrom := g.Participants[(idx-1+n)%n]

	return Perspective{
		Viewer:       viewer,
		DeliversTo:   deliversTo,
		ReceivesFrom: receivesFrom,
		HoursGive:    HoursFor(deliversTo.TrustScore),
		HoursReceive: HoursFor(viewer.TrustScore),
	}, true
}
