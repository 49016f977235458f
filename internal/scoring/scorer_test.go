package scoring

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Xploreicon/timebankng/internal/category"
)

var testClock = time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)

func strongProfile(id, city, cat string) Profile {
	return Profile{
		ID:                id,
		City:              city,
		Category:          cat,
		TrustScore:        90,
		PhoneVerified:     true,
		EmailVerified:     true,
		BusinessVerified:  true,
		ResponseTimeHours: 1,
		CompletionRate:    95,
		CancellationRate:  0,
		TotalTrades:       12,
	}
}

func offering(user, cat, level string, days float64) Offering {
	return Offering{
		ID:              user + "-" + cat,
		UserID:          user,
		Category:        cat,
		SkillLevel:      level,
		AvgDeliveryDays: days,
		SuccessRate:     90,
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
	if len(weights) != 10 {
		t.Errorf("have %d factors, want 10", len(weights))
	}
}

func TestStrongSameCityPair(t *testing.T) {
	s := NewScorer(category.Default())
	a := strongProfile("u1", "Lagos", "legal")
	b := strongProfile("u2", "Lagos", "tech")

	score := s.ScoreAt(testClock, a, b, offering("u1", "legal", SkillExpert, 3), offering("u2", "tech", SkillExpert, 4))

	if score.Breakdown[FactorTrust] < 0.9 {
		t.Errorf("trust compatibility = %v, want >= 0.9", score.Breakdown[FactorTrust])
	}
	if score.Breakdown[FactorLocation] < 0.9 {
		t.Errorf("location proximity = %v, want >= 0.9", score.Breakdown[FactorLocation])
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewScorer(category.Default())
	a := strongProfile("u1", "Abuja", "marketing")
	b := strongProfile("u2", "Kano", "creative")
	svcA := offering("u1", "marketing", SkillIntermediate, 5)
	svcB := offering("u2", "creative", SkillBeginner, 9)

	first := s.ScoreAt(testClock, a, b, svcA, svcB)
	second := s.ScoreAt(testClock, a, b, svcA, svcB)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs produced different scores:\n%+v\n%+v", first, second)
	}
}

func TestScoreStableAcrossRepeatedCalls(t *testing.T) {
	s := NewScorer(category.Default())
	a := strongProfile("u1", "Ibadan", "tech")
	b := strongProfile("u2", "Enugu", "legal")
	svcA := offering("u1", "tech", SkillExpert, 2)
	svcB := offering("u2", "legal", SkillIntermediate, 6)

	first := s.ScoreAt(testClock, a, b, svcA, svcB)
	for i := 0; i < 100; i++ {
		if got := s.ScoreAt(testClock, a, b, svcA, svcB); !reflect.DeepEqual(first, got) {
			t.Fatalf("call %d diverged:\n%+v\n%+v", i, first, got)
		}
	}

	// The total must equal the canonical fixed-order accumulation of the
	// breakdown, independent of how the breakdown map happens to iterate.
	var weighted float64
	for _, factor := range factorOrder {
		weighted += first.Breakdown[factor] * weights[factor]
	}
	if want := int(math.Round(100 * weighted)); first.TotalScore != want {
		t.Errorf("total = %d, want %d from ordered accumulation", first.TotalScore, want)
	}
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer(category.Default())

	profiles := []Profile{
		{},
		{ID: "worst", TrustScore: 0, CancellationRate: 100, ResponseTimeHours: 72},
		strongProfile("best", "Lagos", "legal"),
		{ID: "mid", City: "Jos", TrustScore: 50, CompletionRate: 50, CancellationRate: 10, ResponseTimeHours: 8, TotalTrades: 4},
	}
	offerings := []Offering{
		{},
		offering("x", "xyz", "unknown", 30),
		offering("y", "legal", SkillExpert, 1),
		offering("z", "cleaning", SkillBeginner, 12),
	}

	for _, a := range profiles {
		for _, b := range profiles {
			for _, sa := range offerings {
				for _, sb := range offerings {
					score := s.ScoreAt(testClock, a, b, sa, sb)
					if score.TotalScore < 0 || score.TotalScore > 100 {
						t.Fatalf("total score %d out of [0,100] for %s/%s", score.TotalScore, a.ID, b.ID)
					}
					if score.EstimatedSuccessRate < 10 || score.EstimatedSuccessRate > 95 {
						t.Fatalf("success rate %v out of [10,95]", score.EstimatedSuccessRate)
					}
					for factor, sub := range score.Breakdown {
						if sub < 0 || sub > 1 {
							t.Fatalf("sub-score %s = %v out of [0,1]", factor, sub)
						}
					}
				}
			}
		}
	}
}

func TestTrustCompatibilityMonotonicInTrust(t *testing.T) {
	base := Profile{CompletionRate: 70, CancellationRate: 5}
	prev := -1.0
	for trust := 0.0; trust <= 100; trust += 5 {
		a, b := base, base
		a.TrustScore = trust
		b.TrustScore = trust
		got := trustCompatibility(a, b)
		if got < prev {
			t.Fatalf("trust compatibility decreased at trust=%v: %v < %v", trust, got, prev)
		}
		prev = got
	}
}

func TestSuccessRateScaling(t *testing.T) {
	// Both operands on the 0-100 scale before weighting:
	// 0.6*80 + 0.4*(100*0.5) = 68.
	if got := successRate(80, 0.5); got != 68 {
		t.Errorf("successRate(80, 0.5) = %v, want 68", got)
	}
	// clamped on both ends
	if got := successRate(0, 0); got != 10 {
		t.Errorf("successRate(0, 0) = %v, want 10", got)
	}
	if got := successRate(100, 1); got != 95 {
		t.Errorf("successRate(100, 1) = %v, want 95", got)
	}
}

func TestPriorityThresholds(t *testing.T) {
	cases := []struct {
		total  int
		demand float64
		want   Priority
	}{
		{90, 0.9, PriorityUrgent},
		{85, 0.81, PriorityUrgent},
		{90, 0.7, PriorityHigh}, // high demand missing
		{75, 0.9, PriorityHigh},
		{74, 0.9, PriorityMedium},
		{60, 0.2, PriorityMedium},
		{59, 0.9, PriorityLow},
		{0, 0, PriorityLow},
	}
	for _, tc := range cases {
		if got := priorityFor(tc.total, tc.demand); got != tc.want {
			t.Errorf("priorityFor(%d, %v) = %s, want %s", tc.total, tc.demand, got, tc.want)
		}
	}
}

func TestTimeCompatibilitySteps(t *testing.T) {
	cases := []struct {
		daysA, daysB float64
		want         float64
	}{
		{3, 4, 1.0},
		{3, 5, 1.0},
		{2, 7, 0.8},
		{1, 10, 0.6},
		{1, 15, 0.3},
	}
	for _, tc := range cases {
		if got := timeCompatibility(tc.daysA, tc.daysB); got != tc.want {
			t.Errorf("timeCompatibility(%v, %v) = %v, want %v", tc.daysA, tc.daysB, got, tc.want)
		}
	}
}

func TestResponseSpeedSteps(t *testing.T) {
	cases := []struct {
		hoursA, hoursB float64
		want           float64
	}{
		{1, 1, 1.0},
		{2, 4, 0.8},
		{10, 20, 0.6},
		{24, 48, 0.3},
	}
	for _, tc := range cases {
		if got := responseSpeed(tc.hoursA, tc.hoursB); got != tc.want {
			t.Errorf("responseSpeed(%v, %v) = %v, want %v", tc.hoursA, tc.hoursB, got, tc.want)
		}
	}
}

func TestSkillLevelMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{SkillExpert, SkillExpert, 1.0},
		{SkillBeginner, SkillIntermediate, 0.8},
		{SkillBeginner, SkillExpert, 0.5},
		{"", "", 1.0}, // unknown levels treated as intermediate
	}
	for _, tc := range cases {
		if got := skillLevelMatch(tc.a, tc.b); got != tc.want {
			t.Errorf("skillLevelMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestVerificationLevel(t *testing.T) {
	full := Profile{PhoneVerified: true, EmailVerified: true, BusinessVerified: true}
	none := Profile{}

	if got := verificationLevel(full, full); got != 1.0 {
		t.Errorf("both fully verified = %v, want 1.0 (capped)", got)
	}
	if got := verificationLevel(full, none); got != 0.5 {
		t.Errorf("one side verified = %v, want 0.5", got)
	}
	if got := verificationLevel(none, none); got != 0 {
		t.Errorf("neither verified = %v, want 0", got)
	}
}

func TestMarketTimingCappedAtOne(t *testing.T) {
	if got := marketTiming(time.November); got != 1.0 {
		t.Errorf("November timing = %v, want 1.0 (capped from 1.3)", got)
	}
	if got := marketTiming(time.January); got != 0.8 {
		t.Errorf("January timing = %v, want 0.8", got)
	}
}

func TestRiskFactorCodes(t *testing.T) {
	s := NewScorer(category.Default())
	risky := Profile{ID: "r", City: "Lagos", TrustScore: 20, CancellationRate: 35, TotalTrades: 1, ResponseTimeHours: 48}
	score := s.ScoreAt(testClock, risky, risky, offering("r", "legal", SkillBeginner, 1), offering("r", "tech", SkillExpert, 20))

	want := map[RiskFactor]bool{
		RiskHighCancellation: true,
		RiskNewTrader:        true,
		RiskLowTrust:         true,
		RiskDeliveryMismatch: true,
	}
	for _, r := range score.RiskFactors {
		delete(want, r)
	}
	for missing := range want {
		t.Errorf("expected risk factor %s not present", missing)
	}
}

func TestRecommendationForLowTrust(t *testing.T) {
	s := NewScorer(category.Default())
	weak := Profile{ID: "w", City: "Lagos", TrustScore: 30, CompletionRate: 40, TotalTrades: 5}
	score := s.ScoreAt(testClock, weak, weak, offering("w", "legal", SkillExpert, 3), offering("w", "tech", SkillExpert, 3))

	found := false
	for _, r := range score.Recommendations {
		if r == RecStartSmall {
			found = true
		}
	}
	if !found {
		t.Errorf("low trust pair should recommend %s, got %v", RecStartSmall, score.Recommendations)
	}
}
