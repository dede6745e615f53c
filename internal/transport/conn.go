package transport

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps one websocket connection. Outbound frames go through a buffered
// send channel drained by a single write pump, so hub broadcasts never write
// to the socket concurrently.
type Conn struct {
	sock     *websocket.Conn
	send     chan *Frame
	id       string
	done     chan struct{} // Signal for coordinating goroutine shutdown
	doneOnce sync.Once
	mu       sync.Mutex // Mutex for socket access
	isClosed bool
}

func (c *Conn) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

func newConn(id string, sock *websocket.Conn) *Conn {
	return &Conn{
		sock: sock,
		send: make(chan *Frame, 16),
		id:   id,
		done: make(chan struct{}),
	}
}

// ID returns the stable connection identifier, valid for the connection's
// lifetime.
func (c *Conn) ID() string {
	return c.id
}

// Emit queues a single frame for this connection. Returns false when the
// send buffer is full or the connection is gone; the caller decides whether
// that warrants eviction.
func (c *Conn) Emit(event string, payload any) bool {
	frame, err := newFrame(event, payload)
	if err != nil {
		log.Printf("Dropping %q frame for client %s: %v", event, c.id, err)
		return true
	}
	return c.push(frame)
}

func (c *Conn) push(frame *Frame) (sent bool) {
	// The send channel is closed on detach; a broadcast racing with that
	// close must report failure, not panic.
	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Conn) keepAlive() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.isClosed {
				c.mu.Unlock()
				return
			}
			err := c.sock.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				log.Printf("Ping error for client %s: %v", c.id, err)
				return
			}
		}
	}
}

func (c *Conn) writePump() {
	defer func() {
		c.mu.Lock()
		c.isClosed = true
		c.sock.Close()
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame, ok := <-c.send:
			if !ok {
				return
			}

			c.mu.Lock()
			if c.isClosed {
				c.mu.Unlock()
				return
			}
			err := c.sock.WriteJSON(frame)
			c.mu.Unlock()

			if err != nil {
				log.Printf("Error sending frame to client %s: %v", c.id, err)
				return
			}
		}
	}
}

func (c *Conn) readPump(h *Hub) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in readPump: %v", r)
		}

		c.shutdown()
		h.Detach(c)
		log.Printf("Client %s disconnected", c.id)
	}()

	c.sock.SetReadLimit(512 * 1024)

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("Error reading frame from client %s: %v", c.id, err)
			break
		}

		frame, err := decodeFrame(raw)
		if err != nil {
			log.Printf("Ignoring malformed frame from client %s: %v", c.id, err)
			continue
		}

		h.dispatch(c, frame)
	}
}
