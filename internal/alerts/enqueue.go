package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

func appURL() string {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return strings.TrimRight(base, "/")
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := appURL()

	subject := fmt.Sprintf("Welcome to TimeBank NG, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining TimeBank NG. You start with 5 time credits.\n\nRegister what you offer and what you need, and we will find you a trade loop: %s\n\nIf the link doesn’t work, copy and paste the URL above.", name, base)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePasswordReset sends the reset link
func EnqueuePasswordReset(userID, email, resetURL, name string) error {
	subject := "Reset your TimeBank NG password"
	body := fmt.Sprintf("Hi %s, someone requested a password reset for your account.\n\nReset link: %s\n\nIf this wasn’t you, ignore this email.", name, resetURL)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := PasswordResetPayload{UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPasswordReset, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueAdminAlert sends an alert to admins (currently logs)
func EnqueueAdminAlert(adminID, severity, message string) error {
	env := EmailEnvelope{To: "admin@timebank.ng", Subject: "Admin Alert", Body: message}
	payload := AdminAlertPayload{AdminID: adminID, Severity: severity, Message: message, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskAdminAlert, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("alerts"))
	return err
}

// EnqueueMatchFound tells a member they have been proposed into a loop
func EnqueueMatchFound(loopID, userID, email, name string) error {
	subject := "You have a trade loop waiting"
	body := fmt.Sprintf("Hi %s, you have been matched into a trade loop. Review it and accept or decline: %s/loops/%s", name, appURL(), loopID)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := MatchFoundPayload{LoopID: loopID, UserID: userID, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskMatchFound, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueLoopAccepted tells a member their loop went active
func EnqueueLoopAccepted(loopID, userID, email, name string) error {
	subject := "Your trade loop is active"
	body := fmt.Sprintf("Hi %s, everyone accepted. Deliver your service and mark it delivered: %s/loops/%s", name, appURL(), loopID)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := LoopAcceptedPayload{LoopID: loopID, UserID: userID, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskLoopAccepted, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueLoopCompleted tells a member the loop settled
func EnqueueLoopCompleted(loopID, userID, email, name string) error {
	subject := "Trade loop completed"
	body := fmt.Sprintf("Hi %s, every service in your loop was delivered and credits have been settled. Leave a review for your partners: %s/loops/%s", name, appURL(), loopID)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := LoopCompletedPayload{LoopID: loopID, UserID: userID, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskLoopCompleted, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}
