package server

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WebSocket heartbeat settings to detect disconnected clients.
	pingInterval = 10 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one websocket connection. Messages to the client go through the
// buffered send channel so a slow or gone client can never stall a room's
// tick loop; the write pump drains the channel on its own goroutine.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu       sync.Mutex
	playerID string
	room     *Room

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// bind associates the client with the room and player identity it joined as.
func (c *Client) bind(room *Room, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
	c.playerID = playerID
}

// Room returns the room the client has joined, or nil.
func (c *Client) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// PlayerID returns the player identity assigned at join, or "".
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// trySend queues a message without blocking. A full buffer means the client
// is too slow to keep up; the message is dropped and the connection closed
// so the read pump unwinds the player.
func (c *Client) trySend(message []byte) {
	select {
	case c.send <- message:
	default:
		log.Printf("client %s: send buffer full, closing connection", c.PlayerID())
		c.conn.Close()
	}
}

// closeSend closes the send channel exactly once, releasing the write pump.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump reads messages from the connection and hands them to the room
// manager until the connection drops, then unwinds the player.
func (c *Client) readPump(m *RoomManager) {
	defer func() {
		m.disconnect(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: unexpected close: %v", c.PlayerID(), err)
			}
			break
		}
		m.handleMessage(c, message)
	}
}

// writePump sends queued messages and heartbeat pings until the send
// channel closes or the read pump signals termination.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("client %s: write error: %v", c.PlayerID(), err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
