package messaging

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/alerts"
	"github.com/Xploreicon/timebankng/internal/db"
)

// SendLoopMessage - a participant posts a message in the loop thread.
// Every other participant gets the message broadcast and an in-app
// notification.
func SendLoopMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	loopID := c.Param("id")
	if loopID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing loop id"})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	if !isParticipant(loopID, userID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant of this loop"})
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err := db.Conn.QueryRow(context.Background(),
		`INSERT INTO loop_messages (id, loop_id, sender_id, content)
         VALUES ($1, $2, $3, $4) RETURNING created_at`,
		msgID, loopID, userID, body.Content,
	).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	// Broadcast new message event to WS subscribers
	BroadcastNewMessage(loopID, echo.Map{
		"id":         msgID,
		"loop_id":    loopID,
		"sender_id":  userID,
		"content":    body.Content,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})

	// In-app notification for the other participants (best-effort)
	rows, err := db.Conn.Query(context.Background(),
		`SELECT user_id FROM trade_participants WHERE loop_id = $1 AND user_id <> $2`,
		loopID, userID,
	)
	if err == nil {
		defer rows.Close()
		ref := msgID
		for rows.Next() {
			var memberID string
			if err := rows.Scan(&memberID); err != nil {
				break
			}
			_ = alerts.CreateNotification(memberID, "message:new", "New message in your trade loop", body.Content, &ref, nil)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message_id": msgID})
}

// ListLoopMessages - get the conversation for a trade loop
func ListLoopMessages(c echo.Context) error {
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

	// Optional since filter for incremental fetches
	sinceStr := c.QueryParam("since")
	var rows pgx.Rows
	var err error
	if sinceStr != "" {
		sinceTime, perr := time.Parse(time.RFC3339, sinceStr)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid since timestamp, use RFC3339"})
		}
		rows, err = db.Conn.Query(context.Background(),
			`SELECT id, sender_id, content, created_at
             FROM loop_messages WHERE loop_id = $1 AND created_at > $2 ORDER BY created_at ASC`, loopID, sinceTime,
		)
	} else {
		rows, err = db.Conn.Query(context.Background(),
			`SELECT id, sender_id, content, created_at
             FROM loop_messages WHERE loop_id = $1 ORDER BY created_at ASC`, loopID,
		)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list messages"})
	}
	defer rows.Close()

	type message struct {
		ID        string `json:"id"`
		SenderID  string `json:"sender_id"`
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
	}

	var msgs []message
	for rows.Next() {
		var m message
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.SenderID, &m.Content, &createdAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		m.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		msgs = append(msgs, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
