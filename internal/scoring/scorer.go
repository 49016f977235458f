package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/Xploreicon/timebankng/internal/category"
	"github.com/Xploreicon/timebankng/internal/exchange"
)

// factorOrder is the canonical accumulation order for the weighted sum.
var factorOrder = []string{
	FactorTrust,
	FactorLocation,
	FactorDemand,
	FactorFairness,
	FactorTime,
	FactorSkill,
	FactorResponse,
	FactorVerification,
	FactorTiming,
	FactorBusinessFit,
}

// Factor weights. They sum to 1.0.
var weights = map[string]float64{
	FactorTrust:        0.20,
	FactorLocation:     0.15,
	FactorDemand:       0.12,
	FactorFairness:     0.12,
	FactorTime:         0.10,
	FactorSkill:        0.08,
	FactorResponse:     0.08,
	FactorVerification: 0.06,
	FactorTiming:       0.05,
	FactorBusinessFit:  0.04,
}

// cityImportance weighs how much business activity a city carries.
// Cities not listed fall back to the default.
var cityImportance = map[string]float64{
	"lagos":         1.0,
	"abuja":         0.95,
	"port harcourt": 0.9,
	"ibadan":        0.85,
	"kano":          0.85,
	"enugu":         0.8,
	"benin city":    0.8,
	"kaduna":        0.75,
}

const defaultCityImportance = 0.7

// monthMultiplier reflects seasonal trading activity. November/December
// peak around end-of-year demand, January is slow.
var monthMultiplier = map[time.Month]float64{
	time.January:   0.8,
	time.February:  0.85,
	time.March:     0.95,
	time.April:     1.0,
	time.May:       1.0,
	time.June:      0.9,
	time.July:      0.9,
	time.August:    0.95,
	time.September: 1.05,
	time.October:   1.1,
	time.November:  1.3,
	time.December:  1.25,
}

var skillRank = map[string]int{
	SkillBeginner:     0,
	SkillIntermediate: 1,
	SkillExpert:       2,
}

// Scorer computes compatibility scores against a fixed category table
// snapshot. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	table *category.Table
}

func NewScorer(t *category.Table) *Scorer {
	return &Scorer{table: t}
}

// Score computes the compatibility of two users trading their offered
// services, using the current month for market timing.
func (s *Scorer) Score(a, b Profile, svcA, svcB Offering) MatchScore {
	return s.ScoreAt(time.Now(), a, b, svcA, svcB)
}

// ScoreAt is Score with an explicit clock. Deterministic: identical
// inputs and time always produce identical output.
func (s *Scorer) ScoreAt(now time.Time, a, b Profile, svcA, svcB Offering) MatchScore {
	breakdown := map[string]float64{
		FactorTrust:        trustCompatibility(a, b),
		FactorLocation:     locationProximity(a.City, b.City),
		FactorDemand:       s.categoryDemand(svcA.Category, svcB.Category),
		FactorFairness:     s.exchangeFairness(svcA, svcB),
		FactorTime:         timeCompatibility(svcA.AvgDeliveryDays, svcB.AvgDeliveryDays),
		FactorSkill:        skillLevelMatch(svcA.SkillLevel, svcB.SkillLevel),
		FactorResponse:     responseSpeed(a.ResponseTimeHours, b.ResponseTimeHours),
		FactorVerification: verificationLevel(a, b),
		FactorTiming:       marketTiming(now.Month()),
		FactorBusinessFit:  s.businessTypeFit(svcA.Category, svcB.Category),
	}

	// Accumulate in fixed factor order: ranging over the map would make
	// the float sums depend on iteration order at rounding boundaries.
	var weighted, mean float64
	for _, factor := range factorOrder {
		sub := breakdown[factor]
		weighted += sub * weights[factor]
		mean += sub
	}
	mean /= float64(len(factorOrder))

	total := int(math.Round(100 * weighted))
	avgCompletion := (a.CompletionRate + b.CompletionRate) / 2

	return MatchScore{
		TotalScore:           total,
		Breakdown:            breakdown,
		Recommendations:      recommendations(breakdown),
		RiskFactors:          riskFactors(a, b, breakdown),
		EstimatedSuccessRate: successRate(avgCompletion, mean),
		Priority:             priorityFor(total, breakdown[FactorDemand]),
	}
}

// trustCompatibility rewards high average trust and completion rate,
// penalizes trust gap and cancellations.
func trustCompatibility(a, b Profile) float64 {
	avgTrust := (a.TrustScore + b.TrustScore) / 2
	gap := math.Abs(a.TrustScore - b.TrustScore)
	avgCompletion := (a.CompletionRate + b.CompletionRate) / 2
	avgCancellation := (a.CancellationRate + b.CancellationRate) / 2

	score := 0.5*avgTrust/100 +
		0.3*avgCompletion/100 +
		0.2*(1-gap/100) -
		0.5*avgCancellation/100
	return clamp01(score)
}

// locationProximity: same city scores the city's business importance,
// different cities average the two with a 0.7 penalty.
func locationProximity(cityA, cityB string) float64 {
	impA := importanceOf(cityA)
	impB := importanceOf(cityB)
	if normalizeCity(cityA) == normalizeCity(cityB) && cityA != "" {
		return impA
	}
	return (impA + impB) / 2 * 0.7
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func importanceOf(city string) float64 {
	if imp, ok := cityImportance[normalizeCity(city)]; ok {
		return imp
	}
	return defaultCityImportance
}

// categoryDemand combines popularity flags with a complementary-pair bonus.
func (s *Scorer) categoryDemand(catA, catB string) float64 {
	score := 0.5
	if c, ok := s.table.Get(catA); ok && c.Popular {
		score += 0.2
	}
	if c, ok := s.table.Get(catB); ok && c.Popular {
		score += 0.2
	}
	if s.table.Complementary(catA, catB) {
		score += 0.3
	}
	return clamp01(score)
}

// exchangeFairness checks that the hour conversion is symmetric within
// rounding, blended with skill similarity.
func (s *Scorer) exchangeFairness(svcA, svcB Offering) float64 {
	rate := exchange.Rate(s.table, svcA.Category, svcB.Category)
	inverse := exchange.Rate(s.table, svcB.Category, svcA.Category)
	fairness := clamp01(1 - math.Abs(1-rate*inverse))
	return 0.7*fairness + 0.3*skillLevelMatch(svcA.SkillLevel, svcB.SkillLevel)
}

func timeCompatibility(daysA, daysB float64) float64 {
	diff := math.Abs(daysA - daysB)
	switch {
	case diff <= 2:
		return 1.0
	case diff <= 5:
		return 0.8
	case diff <= 10:
		return 0.6
	default:
		return 0.3
	}
}

func skillLevelMatch(levelA, levelB string) float64 {
	rankA, okA := skillRank[levelA]
	rankB, okB := skillRank[levelB]
	if !okA {
		rankA = skillRank[SkillIntermediate]
	}
	if !okB {
		rankB = skillRank[SkillIntermediate]
	}
	switch abs(rankA - rankB) {
	case 0:
		return 1.0
	case 1:
		return 0.8
	default:
		return 0.5
	}
}

func responseSpeed(hoursA, hoursB float64) float64 {
	avg := (hoursA + hoursB) / 2
	switch {
	case avg < 2:
		return 1.0
	case avg < 6:
		return 0.8
	case avg < 24:
		return 0.6
	default:
		return 0.3
	}
}

// verificationLevel adds a bonus per channel verified on both sides,
// half credit when only one party is verified.
func verificationLevel(a, b Profile) float64 {
	score := 0.0
	score += channelBonus(a.PhoneVerified, b.PhoneVerified, 0.4)
	score += channelBonus(a.EmailVerified, b.EmailVerified, 0.3)
	score += channelBonus(a.BusinessVerified, b.BusinessVerified, 0.3)
	return clamp01(score)
}

func channelBonus(verifiedA, verifiedB bool, bonus float64) float64 {
	switch {
	case verifiedA && verifiedB:
		return bonus
	case verifiedA || verifiedB:
		return bonus / 2
	default:
		return 0
	}
}

func marketTiming(m time.Month) float64 {
	mult, ok := monthMultiplier[m]
	if !ok {
		mult = 1.0
	}
	return math.Min(mult, 1.0)
}

func (s *Scorer) businessTypeFit(catA, catB string) float64 {
	classA := s.classOf(catA)
	classB := s.classOf(catB)
	switch {
	case classA == category.ClassB2B && classB == category.ClassB2B:
		return 1.0
	case classA == category.ClassB2C && classB == category.ClassB2C:
		return 0.8
	default:
		return 0.7
	}
}

func (s *Scorer) classOf(cat string) category.Class {
	if c, ok := s.table.Get(cat); ok {
		return c.Class
	}
	return ""
}

func recommendations(breakdown map[string]float64) []Recommendation {
	var recs []Recommendation
	if breakdown[FactorTrust] < 0.6 {
		recs = append(recs, RecStartSmall)
	}
	if breakdown[FactorLocation] < 0.5 {
		recs = append(recs, RecAgreeLogistics)
	}
	if breakdown[FactorFairness] < 0.6 {
		recs = append(recs, RecRebalanceHours)
	}
	if breakdown[FactorVerification] < 0.5 {
		recs = append(recs, RecCompleteVerification)
	}
	if breakdown[FactorTime] < 0.6 {
		recs = append(recs, RecAlignTimelines)
	}
	return recs
}

func riskFactors(a, b Profile, breakdown map[string]float64) []RiskFactor {
	var risks []RiskFactor
	if a.CancellationRate > 20 || b.CancellationRate > 20 {
		risks = append(risks, RiskHighCancellation)
	}
	if a.TotalTrades < 3 || b.TotalTrades < 3 {
		risks = append(risks, RiskNewTrader)
	}
	if breakdown[FactorTrust] < 0.4 {
		risks = append(risks, RiskLowTrust)
	}
	if breakdown[FactorTime] < 0.5 {
		risks = append(risks, RiskDeliveryMismatch)
	}
	return risks
}

// successRate blends average completion rate with the mean sub-score,
// both on the 0-100 scale, clamped to [10,95].
func successRate(avgCompletion, meanSubScore float64) float64 {
	rate := 0.6*avgCompletion + 0.4*100*meanSubScore
	if rate < 10 {
		rate = 10
	}
	if rate > 95 {
		rate = 95
	}
	return math.Round(rate*100) / 100
}

func priorityFor(total int, demandSub float64) Priority {
	switch {
	case total >= 85 && demandSub > 0.8:
		return PriorityUrgent
	case total >= 75:
		return PriorityHigh
	case total >= 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
