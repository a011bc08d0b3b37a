package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

var errMalformedFrame = errors.New("malformed frame")

// handleWebSocket runs one realtime connection. The read loop feeds intents to
// the gateway; a writer goroutine drains the connection's outbound queue so
// only one goroutine ever writes to the socket.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	connID := uuid.NewString()
	c.SetReadLimit(maxFrameSize)
	client := m.gateway.Connect(connID)

	written := make(chan struct{})
	go func() {
		defer close(written)
		for data := range client.Messages() {
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				m.logger.Debug("WebSocket write failed", "connID", connID, "error", err)
				return
			}
		}
	}()

	defer func() {
		m.gateway.Disconnect(connID)
		<-written
		m.logger.Info("WebSocket disconnected", "connID", connID)
	}()

	m.logger.Info("WebSocket connected", "connID", connID)

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("WebSocket error", "connID", connID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(msg, &frame); err != nil || frame.Event == "" {
			m.gateway.Reject(connID, errMalformedFrame)
			continue
		}

		out := m.gateway.Dispatch(connID, frame.Event, frame.Data)
		m.logger.Debug("Dispatched realtime intent",
			"connID", connID,
			"event", frame.Event,
			"outcome", out.Kind.String())
	}
}
