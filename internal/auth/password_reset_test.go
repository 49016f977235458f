package auth

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestResetTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PASSWORD_RESET_EXP_MINUTES", "")

	signed, err := resetToken("user-42")
	if err != nil {
		t.Fatalf("resetToken: %v", err)
	}
	userID, err := parseResetToken(signed)
	if err != nil {
		t.Fatalf("parseResetToken: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("userID = %q, want user-42", userID)
	}
}

func TestParseResetTokenRejectsLoginPurpose(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// A session token with the same signing key must not pass as a
	// reset token.
	claims := jwt.MapClaims{
		"user_id": "user-42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseResetToken(signed); err == nil {
		t.Error("token without reset purpose was accepted")
	}
}

func TestParseResetTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"user_id": "user-42",
		"purpose": "password_reset",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseResetToken(signed); err == nil {
		t.Error("expired reset token was accepted")
	}
}
