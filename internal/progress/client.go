package progress

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Client is one viewer's websocket connection, subscribed to a single
// generation job's event stream. Grounded in the teacher's
// websocket.Client, with subscription management dropped: a progress
// viewer watches exactly the job it connected for, there is no
// subscribe/unsubscribe command protocol to support.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan observability.Event

	id       string
	viewerID string
	jobID    string
}

func NewClient(id, viewerID, jobID string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan observability.Event, sendBufferSize),
		id:       id,
		viewerID: viewerID,
		jobID:    jobID,
	}
}

// Start registers the client and launches its read/write pumps. Call once
// per accepted connection.
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

// readPump only drains the connection to detect close/ping frames -- a
// progress viewer never sends commands, it is read-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
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
