package ws

import (
	"github.com/gorilla/websocket"

	"github.com/tgilmour/broadside/internal/model"
)

// Client is one live websocket connection
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn
	send chan any
}

func newClient(id model.ConnectionID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan any, sendBufferSize),
	}
}

// ID returns the connection identifier assigned at upgrade time
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// enqueue queues a frame for delivery without blocking. Returns false
// when the client's buffer is full and the frame was dropped.
func (c *Client) enqueue(frame any) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// writePump drains the send channel onto the socket. It exits when the
// channel is closed or a write fails.
func (c *Client) writePump() {
	defer c.conn.Close()

	for frame := range c.send {
		if err := c.conn.WriteJSON(frame); err != nil {
			return
		}
	}
}
