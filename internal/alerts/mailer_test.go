package alerts

import (
	"strings"
	"testing"
)

func TestConfigureMailerRequiresSMTPSettings(t *testing.T) {
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("SMTP_FROM", "")

	if err := ConfigureMailerFromEnv(); err == nil {
		t.Fatal("expected error with no SMTP settings")
	}
}

func TestConfigureMailerDefaultsSenderIdentity(t *testing.T) {
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("SMTP_HOST", "smtp.example.ng")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "s3cret")
	t.Setenv("SMTP_FROM", "")

	if err := ConfigureMailerFromEnv(); err != nil {
		t.Fatalf("ConfigureMailerFromEnv: %v", err)
	}
	if !strings.Contains(mailCfg.From, "timebank.ng") {
		t.Errorf("default From = %q, want a timebank.ng sender", mailCfg.From)
	}
}

func TestConfigureMailerPlunkProviderSkipsSMTPCheck(t *testing.T) {
	t.Setenv("MAIL_PROVIDER", "plunk")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")

	if err := ConfigureMailerFromEnv(); err != nil {
		t.Fatalf("plunk provider should defer config: %v", err)
	}
}

func TestConfigurePlunkDefaults(t *testing.T) {
	t.Setenv("PLUNK_API_KEY", "pk_test")
	t.Setenv("PLUNK_FROM", "")
	t.Setenv("PLUNK_API_URL", "")

	if err := ConfigurePlunkFromEnv(); err != nil {
		t.Fatalf("ConfigurePlunkFromEnv: %v", err)
	}
	if plunkCfg.APIURL != plunkDefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", plunkCfg.APIURL, plunkDefaultAPIURL)
	}
	if plunkCfg.From != "no-reply@timebank.ng" {
		t.Errorf("From = %q, want no-reply@timebank.ng", plunkCfg.From)
	}

	t.Setenv("PLUNK_API_KEY", "")
	if err := ConfigurePlunkFromEnv(); err == nil {
		t.Error("expected error without PLUNK_API_KEY")
	}
}

func TestBodyContentTypeSniffing(t *testing.T) {
	if got := bodyContentType("Hi Ada, your trade loop is active."); got != "text/plain" {
		t.Errorf("plain body typed as %q", got)
	}
	if got := bodyContentType("<html><body>Hi Ada</body></html>"); got != "text/html" {
		t.Errorf("html body typed as %q", got)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	t.Setenv("MAIL_REPLY_TO", "support@timebank.ng")
	mailCfg.From = "TimeBank NG <no-reply@timebank.ng>"

	msg := buildMessage("ada@example.ng", "Trade loop active", "Everyone accepted.")
	for _, want := range []string{
		"From: TimeBank NG <no-reply@timebank.ng>\r\n",
		"To: ada@example.ng\r\n",
		"Subject: Trade loop active\r\n",
		"Reply-To: support@timebank.ng\r\n",
		"Content-Type: text/plain; charset=\"utf-8\"\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing header %q", want)
		}
	}
	if !strings.HasSuffix(msg, "\r\nEveryone accepted.\r\n") {
		t.Error("body not terminated with CRLF")
	}
}
