package user

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONNeverExposesPassword(t *testing.T) {
	u := User{
		ID:       "u1",
		Name:     "Ada",
		Email:    "ada@example.ng",
		Password: "$2a$10$secrethash",
		Role:     "member",
		City:     "Lagos",
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "secrethash") || strings.Contains(s, "password") {
		t.Errorf("password leaked into JSON: %s", s)
	}
	if !strings.Contains(s, `"email":"ada@example.ng"`) {
		t.Errorf("owner view should keep email: %s", s)
	}
}

func TestPublicViewHidesContactDetails(t *testing.T) {
	u := User{
		ID:          "u1",
		Name:        "Ada",
		Email:       "ada@example.ng",
		Role:        "admin",
		City:        "Lagos",
		Category:    "legal",
		TrustScore:  82,
		TotalTrades: 14,
		CreatedAt:   time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
	}

	view := u.PublicView()
	if _, ok := view["email"]; ok {
		t.Error("public view exposes email")
	}
	if _, ok := view["role"]; ok {
		t.Error("public view exposes role")
	}
	if view["trust_score"] != 82.0 {
		t.Errorf("trust_score = %v, want 82", view["trust_score"])
	}
	if _, ok := view["bio"]; ok {
		t.Error("empty bio should be omitted")
	}

	u.Bio = "Corporate law, 6 years."
	if v := u.PublicView()["bio"]; v != "Corporate law, 6 years." {
		t.Errorf("bio = %v", v)
	}
}
