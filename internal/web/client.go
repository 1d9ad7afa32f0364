package web

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = consts.MaxRequestBytes

	sendBuffer = 256
)

// Client represents a WebSocket client
type Client struct {
	ID     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan *WebMessage
	done   chan struct{}
	engine *calc.Engine
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, engine *calc.Engine) *Client {
	id, _ := generateClientID()

	return &Client{
		ID:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan *WebMessage, sendBuffer),
		done:   make(chan struct{}),
		engine: engine,
	}
}

// ReadPump reads requests from the connection and queues the replies
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read error: %v", err)
			}
			break
		}

		var msg WebMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			if !c.sendResponse(&WebMessage{
				Type:  MessageTypeError,
				Error: fmt.Sprintf("invalid message: %v", err),
			}) {
				break
			}
			continue
		}

		if !c.sendResponse(c.handleMessage(&msg)) {
			logger.Debug("Client %s write pump stopped, closing", c.ID)
			break
		}
	}
}

// WritePump writes queued replies and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				logger.Error("Failed to marshal message: %v", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage evaluates one request and builds its reply
func (c *Client) handleMessage(msg *WebMessage) *WebMessage {
	switch msg.Type {
	case MessageTypeCompute:
		value, err := c.engine.Compute(msg.Expression)
		resp := newComputeResponse(msg.Expression, value, err)
		return &WebMessage{Type: MessageTypeResult, Response: &resp}

	case MessageTypeExplain:
		resp := newExplainResponse(c.engine.Explain(msg.Expression))
		return &WebMessage{Type: MessageTypeResult, Explain: &resp}

	default:
		logger.Warn("Unknown message type: %s", msg.Type)
		return &WebMessage{
			Type:  MessageTypeError,
			Error: fmt.Sprintf("unknown message type %q", msg.Type),
		}
	}
}

// sendResponse queues a reply, waiting for the write pump while the buffer
// is full. It reports false once the write pump has stopped.
func (c *Client) sendResponse(msg *WebMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

// generateClientID generates a random client ID
func generateClientID() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
