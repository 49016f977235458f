package scoring

// Profile is the read-only scoring view of a user. Trade outcomes mutate
// these fields elsewhere; the scorer only reads them.
type Profile struct {
	ID                string  `json:"id"`
	City              string  `json:"city"`
	Category          string  `json:"category"`
	TrustScore        float64 `json:"trust_score"`   // 0-100
	PhoneVerified     bool    `json:"phone_verified"`
	EmailVerified     bool    `json:"email_verified"`
	BusinessVerified  bool    `json:"business_verified"`
	ResponseTimeHours float64 `json:"response_time_hours"`
	CompletionRate    float64 `json:"completion_rate"`   // 0-100
	CancellationRate  float64 `json:"cancellation_rate"` // 0-100
	TotalTrades       int     `json:"total_trades"`
}

// Offering is the read-only scoring view of a listed service.
type Offering struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Category        string  `json:"category"`
	SkillLevel      string  `json:"skill_level"` // beginner, intermediate, expert
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
	SuccessRate     float64 `json:"success_rate"` // 0-100
}

// Skill levels for offerings.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillExpert       = "expert"
)

// Breakdown factor keys. Each maps to a sub-score in [0,1].
const (
	FactorTrust        = "trust_compatibility"
	FactorLocation     = "location_proximity"
	FactorDemand       = "category_demand"
	FactorFairness     = "exchange_fairness"
	FactorTime         = "time_compatibility"
	FactorSkill        = "skill_level_match"
	FactorResponse     = "response_speed"
	FactorVerification = "verification_level"
	FactorTiming       = "market_timing"
	FactorBusinessFit  = "business_type_fit"
)

// Priority tags a match for presentation ordering.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Recommendation is a closed set of actionable hints. Consumers can
// switch on these exhaustively instead of matching free text.
type Recommendation string

const (
	RecStartSmall           Recommendation = "start_with_smaller_trade"
	RecAgreeLogistics       Recommendation = "agree_logistics_upfront"
	RecRebalanceHours       Recommendation = "rebalance_hours"
	RecCompleteVerification Recommendation = "complete_verification"
	RecAlignTimelines       Recommendation = "align_delivery_timelines"
)

// RiskFactor is a closed set of risk reason codes.
type RiskFactor string

const (
	RiskHighCancellation RiskFactor = "high_cancellation_rate"
	RiskNewTrader        RiskFactor = "low_trade_history"
	RiskLowTrust         RiskFactor = "low_trust_compatibility"
	RiskDeliveryMismatch RiskFactor = "delivery_time_mismatch"
)

// MatchScore is the composite compatibility result for a candidate pair.
// Computed fresh per call; never persisted by this package.
type MatchScore struct {
	TotalScore           int                `json:"total_score"` // 0-100
	Breakdown            map[string]float64 `json:"breakdown"`
	Recommendations      []Recommendation   `json:"recommendations"`
	RiskFactors          []RiskFactor       `json:"risk_factors"`
	EstimatedSuccessRate float64            `json:"estimated_success_rate"` // 10-95
	Priority             Priority           `json:"priority"`
}
