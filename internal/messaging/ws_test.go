package messaging

import (
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetHubReturnsSameHubPerLoop(t *testing.T) {
	a := getHub("loop-hub-a")
	b := getHub("loop-hub-a")
	if a != b {
		t.Error("getHub returned distinct hubs for the same loop")
	}
	other := getHub("loop-hub-b")
	if a == other {
		t.Error("getHub shared a hub across different loops")
	}
}

func TestBroadcastLoopEventWithoutClients(t *testing.T) {
	// Lifecycle broadcasts fire from accept/decline/deliver handlers even
	// when nobody is connected yet; they must be a safe no-op.
	BroadcastLoopEvent("loop-hub-empty", "loop_active", echo.Map{"loop_id": "loop-hub-empty"})
	BroadcastLoopEvent("loop-hub-empty", "participant_accepted", echo.Map{"user_id": "u1"})

	h := getHub("loop-hub-empty")
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) != 0 {
		t.Errorf("empty hub has %d clients after broadcast", len(h.clients))
	}
}
