package user

import "time"

// User is the full account record as handlers read it from the users
// table. Password holds the bcrypt hash and is excluded from every
// JSON response.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Password          string    `json:"-"` // never return
	Role              string    `json:"role"`
	City              string    `json:"city,omitempty"`
	Category          string    `json:"category,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	TrustScore        float64   `json:"trust_score"`
	PhoneVerified     bool      `json:"phone_verified"`
	EmailVerified     bool      `json:"email_verified"`
	BusinessVerified  bool      `json:"business_verified"`
	ResponseTimeHours float64   `json:"response_time_hours"`
	CompletionRate    float64   `json:"completion_rate"`
	CancellationRate  float64   `json:"cancellation_rate"`
	TotalTrades       int       `json:"total_trades"`
	CreatedAt         time.Time `json:"created_at"`
}

// PublicView is the subset safe to show other members: reputation and
// identity, never contact details or role.
func (u User) PublicView() map[string]interface{} {
	view := map[string]interface{}{
		"id":                u.ID,
		"name":              u.Name,
		"city":              u.City,
		"category":          u.Category,
		"trust_score":       u.TrustScore,
		"phone_verified":    u.PhoneVerified,
		"email_verified":    u.EmailVerified,
		"business_verified": u.BusinessVerified,
		"completion_rate":   u.CompletionRate,
		"total_trades":      u.TotalTrades,
		"created_at":        u.CreatedAt.Format(time.RFC3339),
	}
	if u.Bio != "" {
		view["bio"] = u.Bio
	}
	if u.AvatarURL != "" {
		view["avatar_url"] = u.AvatarURL
	}
	return view
}
