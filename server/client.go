package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Outbound queue depth per client
	sendQueueSize = 32
)

// Client represents a WebSocket client connection.
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan interface{}
	id        string
	closeOnce sync.Once
}

// readPump handles reading messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("read pump started", "client_id", c.id)

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			break
		}

		var msg CommandMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.server.logger.Warnw("json unmarshal error",
				"error", err.Error(),
				"client_id", c.id,
			)
			continue
		}
		c.routeMessage(&msg)
	}
}

// handleReadError logs unexpected WebSocket read errors. Expected closure
// codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("websocket read error",
			"error", err.Error(),
			"client_id", c.id,
		)
	}
}

// routeMessage dispatches incoming WebSocket messages to handlers.
func (c *Client) routeMessage(msg *CommandMessage) {
	switch msg.Type {
	case "think":
		c.handleThink(msg)
	case "status":
		c.sendJSON(StatusMessage{
			Type:      "kernel_status",
			Status:    c.server.kernel.Status(),
			Timestamp: time.Now().Unix(),
		})
	case "graph":
		g := c.server.builder.Build()
		c.sendJSON(GraphMessage{Type: "graph", Graph: g, Timestamp: time.Now().Unix()})
	case "introspect":
		c.handleIntrospect()
	case "set_goal":
		c.handleSetGoal(msg.Goal)
	case "ping":
		// Deadline refresh handled by the pong handler
	default:
		c.server.logger.Debugw("unknown message type",
			"type", msg.Type,
			"client_id", c.id,
		)
	}
}

// handleThink runs agent think steps and streams each step's result.
func (c *Client) handleThink(msg *CommandMessage) {
	if c.server.agent == nil {
		c.sendJSON(ErrorMessage{Type: "error", Error: "no agent attached"})
		return
	}

	steps := msg.Steps
	if steps <= 0 {
		steps = 1
	}
	if steps > 100 {
		steps = 100
	}

	for i := 0; i < steps; i++ {
		var input map[string]any
		if i == 0 && len(msg.Input) > 0 {
			input = msg.Input
		}
		result, step := c.server.thinkStep(input)
		c.sendJSON(ThinkMessage{
			Type:      "think_step",
			Step:      step,
			Result:    result,
			Timestamp: time.Now().Unix(),
		})
	}
}

func (c *Client) handleIntrospect() {
	if c.server.agent == nil {
		c.sendJSON(ErrorMessage{Type: "error", Error: "no agent attached"})
		return
	}
	c.sendJSON(IntrospectMessage{
		Type:          "introspection",
		Introspection: c.server.introspectAgent(),
		Timestamp:     time.Now().Unix(),
	})
}

func (c *Client) handleSetGoal(goal string) {
	if c.server.agent == nil {
		c.sendJSON(ErrorMessage{Type: "error", Error: "no agent attached"})
		return
	}
	if goal == "" {
		c.sendJSON(ErrorMessage{Type: "error", Error: "goal must not be empty"})
		return
	}
	c.server.setAgentGoal(goal)
	c.sendJSON(map[string]interface{}{
		"type": "goal_set",
		"goal": goal,
	})
}

// writePump writes queued messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("write pump started", "client_id", c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			return
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Warnw("message write error",
					"error", err.Error(),
					"client_id", c.id,
				)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues a message for the client, dropping it if the queue is full.
func (c *Client) sendJSON(data interface{}) {
	select {
	case c.send <- data:
	default:
		c.server.logger.Warnw("client send channel full, dropping message",
			"client_id", c.id,
		)
	}
}

// close safely closes the client's send channel.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
