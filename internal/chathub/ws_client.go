package chathub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// WebSocketClient is the gorilla/websocket implementation of Client.
type WebSocketClient struct {
	connID  string
	userID  string
	kind    Kind
	Conn    *websocket.Conn
	Gateway *Gateway
	send    chan Event
}

func NewWebSocketClient(gateway *Gateway, conn *websocket.Conn, connID, userID string, kind Kind) *WebSocketClient {
	return &WebSocketClient{
		connID:  connID,
		userID:  userID,
		kind:    kind,
		Conn:    conn,
		Gateway: gateway,
		send:    make(chan Event, 256),
	}
}

func (c *WebSocketClient) ConnID() string { return c.connID }
func (c *WebSocketClient) UserID() string { return c.userID }
func (c *WebSocketClient) Kind() Kind     { return c.kind }

// Deliver queues an event for the write pump, dropping it when the
// client cannot keep up.
func (c *WebSocketClient) Deliver(ev Event) {
	select {
	case c.send <- ev:
	default:
		log.Printf("WARNING: Dropping %s event for slow connection %s", ev.Type, c.connID)
	}
}

func (c *WebSocketClient) Close() {
	c.Conn.Close()
}

// Run starts the pumps and blocks until the read side exits.
func (c *WebSocketClient) Run() {
	go c.writePump()
	c.readPump()
}

// readPump decodes inbound frames and hands them to the gateway
// synchronously, preserving the connection's own event order.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Gateway.HandleDisconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from connection %s: %v", c.connID, err)
			}
			break
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Error decoding frame from connection %s: %v", c.connID, err)
			continue
		}

		c.Gateway.HandleEvent(c, ev)
	}
}

// writePump drains the send channel into the socket, batching whatever
// is already queued and keeping the connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding %s event for connection %s: %v", ev.Type, c.connID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			n := len(c.send)
			for i := 0; i < n; i++ {
				next := <-c.send
				extra, _ := json.Marshal(next)
				w.Write([]byte{'\n'})
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
