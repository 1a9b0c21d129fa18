package handler

import (
	"time"

	"go-scanner-ws/internal/broadcast"
	"go-scanner-ws/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// pingInterval is how often an idle stream gets a keepalive frame, so proxies
// between the scanner devices and the server do not drop quiet connections.
const pingInterval = 15 * time.Second

const writeTimeout = 10 * time.Second

type StreamHandler struct {
	hub *broadcast.Hub
	log *logrus.Logger
}

func NewStreamHandler(hub *broadcast.Hub) *StreamHandler {
	return &StreamHandler{hub: hub, log: logger.Get()}
}

// Upgrade gates the stream route: plain HTTP requests are rejected before the
// websocket handshake.
func (h *StreamHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream subscribes the connection to live events. The session_id query
// parameter picks the channel; omitted, "0" or "all" subscribes to every
// session.
func (h *StreamHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionID := broadcast.AllSessions
		if raw := conn.Query("session_id"); raw != "" && raw != "0" && raw != "all" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				conn.WriteJSON(fiber.Map{"error": "invalid session id"})
				conn.Close()
				return
			}
			sessionID = parsed
		}

		listener := h.hub.Subscribe(sessionID)
		defer h.hub.Unsubscribe(listener)

		h.log.WithField("session_id", sessionID).Debug("stream connected")

		// Reader goroutine: the client sends nothing meaningful, but reading
		// is what surfaces the close frame.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-listener.Events():
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(fiber.Map{"type": broadcast.EventPing}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
