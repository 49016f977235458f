package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/db"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type hub struct {
	loopID  string
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[string]*hub)
)

func getHub(loopID string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[loopID]; ok {
		return h
	}
	h := &hub{loopID: loopID, clients: make(map[*websocket.Conn]bool)}
	hubs[loopID] = h
	return h
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LoopWS - websocket for realtime updates on a trade loop thread
func LoopWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	loopID := c.Param("id")
	if loopID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing loop id"})
	}

	if !isParticipant(loopID, userID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant of this loop"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h := getHub(loopID)
	h.register(ws)

	// Optionally send a hello event
	h.broadcast(wsEvent{Type: "presence_join", Data: echo.Map{"user_id": userID}})

	// Read loop (discard client messages; protocol is server push for now)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.unregister(ws)
			_ = ws.Close()
			h.broadcast(wsEvent{Type: "presence_leave", Data: echo.Map{"user_id": userID}})
			break
		}
	}
	return nil
}

// BroadcastNewMessage - publish a new message event to loop hub
func BroadcastNewMessage(loopID string, message interface{}) {
	h := getHub(loopID)
	h.broadcast(wsEvent{Type: "message_new", Data: message})
}

// BroadcastLoopEvent - publish a lifecycle event (accept, deliver) to loop hub
func BroadcastLoopEvent(loopID, eventType string, payload interface{}) {
	h := getHub(loopID)
	h.broadcast(wsEvent{Type: eventType, Data: payload})
}

func isParticipant(loopID, userID string) bool {
	var count int
	err := db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM trade_participants WHERE loop_id = $1 AND user_id = $2`,
		loopID, userID,
	).Scan(&count)
	return err == nil && count > 0
}
