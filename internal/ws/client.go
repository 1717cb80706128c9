package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

const (
	// sendBufferSize bounds the per-client outbound queue; a client that
	// cannot drain it has its messages dropped rather than stalling a room
	sendBufferSize = 16

	// maxMessageSize bounds inbound frames; every defined command fits
	// comfortably under this
	maxMessageSize = 4096

	writeWait = 10 * time.Second
)

// Envelope is the wire format for inbound client events
type Envelope struct {
	Event model.CommandType `json:"event"`
	Data  json.RawMessage   `json:"data,omitempty"`
}

// ServerMessage is the wire format for outbound server events
type ServerMessage struct {
	Event model.EventType `json:"event"`
	Data  any             `json:"data,omitempty"`
}

// Client is one websocket connection with its outbound queue
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn
	send chan ServerMessage
}

func newClient(id model.ConnectionID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan ServerMessage, sendBufferSize),
	}
}

// ID returns the connection identity
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// readPump reads frames until the connection drops, feeding each one to
// the dispatcher. The disconnect is reported through the same serialized
// path as any other room operation.
func (c *Client) readPump(hub *Hub, dispatcher *Dispatcher) {
	defer func() {
		hub.Unregister(c)
		dispatcher.HandleDisconnect(context.Background(), c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		dispatcher.HandleMessage(context.Background(), c.id, raw)
	}
}

// writePump drains the send queue onto the wire. Closed send channel means
// the hub dropped us.
func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
