package trade

import "time"

// Offering is a service a member puts up for time-credit trades.
type Offering struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	SkillLevel      string    `json:"skill_level"`
	AvgDeliveryDays float64   `json:"avg_delivery_days"`
	SuccessRate     float64   `json:"success_rate"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Intent is a standing offer/need edge feeding loop discovery.
type Intent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Offers    string    `json:"offers_category"`
	Needs     string    `json:"needs_category"`
	Status    string    `json:"status"` // active, matched, cancelled
	CreatedAt time.Time `json:"created_at"`
}

// Loop is a persisted 2-way or 3-way trade cycle.
type Loop struct {
	ID           string            `json:"id"`
	Type         string            `json:"loop_type"` // two_way, three_way
	Status       string            `json:"status"`    // pending, active, completed, declined, expired
	Participants []LoopParticipant `json:"participants"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// LoopParticipant is one member's position in a persisted loop.
type LoopParticipant struct {
	ID           string  `json:"id"`
	LoopID       string  `json:"loop_id"`
	UserID       string  `json:"user_id"`
	Offers       string  `json:"offers_category"`
	Needs        string  `json:"needs_category"`
	DeliversTo   string  `json:"delivers_to"`
	ReceivesFrom string  `json:"receives_from"`
	HoursGive    float64 `json:"hours_give"`
	HoursReceive float64 `json:"hours_receive"`
	Status       string  `json:"status"` // pending, accepted, declined
	Delivered    bool    `json:"delivered"`
}

type CreateReviewRequest struct {
	RevieweeID string `json:"reviewee_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// Review is post-trade feedback that feeds the reviewee's trust score.
type Review struct {
	ID         string    `json:"id"`
	LoopID     string    `json:"loop_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
