package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail  = "email:welcome"
	TaskPasswordReset = "email:password_reset"
	TaskAdminAlert    = "email:admin_alert"
	TaskMatchFound    = "email:match_found"
	TaskLoopAccepted  = "email:loop_accepted"
	TaskLoopCompleted = "email:loop_completed"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Admin alert payload
type AdminAlertPayload struct {
	AdminID  string        `json:"admin_id"`
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Match found payload (sent when someone proposes a loop including the user)
type MatchFoundPayload struct {
	LoopID   string        `json:"loop_id"`
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Loop accepted payload (sent when every participant has accepted)
type LoopAcceptedPayload struct {
	LoopID   string        `json:"loop_id"`
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Loop completed payload (sent after credit settlement)
type LoopCompletedPayload struct {
	LoopID   string        `json:"loop_id"`
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
