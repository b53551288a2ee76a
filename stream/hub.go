package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/render"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	// Frames queued per client before new frames are dropped for it.
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Hub fans published frames out to websocket clients. Publishing never
// blocks on a client: a client whose queue is full misses frames.
type Hub struct {
	// Width and Height are copied into every published frame.
	Width, Height int

	mu      sync.Mutex
	clients map[*client]bool
	last    []byte
	closed  bool
}

// NewHub returns a hub without clients.
func NewHub(width, height int) *Hub {
	return &Hub{
		Width:   width,
		Height:  height,
		clients: make(map[*client]bool),
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Publish encodes f and queues it to every client. It also becomes the
// frame served to new clients and by Latest.
func (h *Hub) Publish(f Frame) error {
	f.Width, f.Height = h.Width, h.Height
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal frame %d", f.Seq)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New("publish on closed hub")
	}
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// Present publishes a frame recorded on a *render.DisplayList. It has the
// signature of driver.PresentFunc.
func (h *Hub) Present(seq int, elapsed time.Duration, s wireframe.Surface) error {
	dl, ok := s.(*render.DisplayList)
	if !ok {
		return errors.Errorf("stream needs a *render.DisplayList surface, got %T", s)
	}
	return h.Publish(NewFrame(seq, elapsed, dl))
}

// Latest returns the last published frame encoded as JSON, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later Publish calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request to a websocket and streams frames to it
// until either side closes the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] ws upgrade error: %v", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	if h.last != nil {
		c.send <- h.last
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages and unregisters the client once the
// connection fails or is closed by the peer.
func (c *client) readPump() {
	defer c.hub.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[stream] ws read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.unregister(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[stream] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[stream] ws write ping error: %v", err)
				return
			}
		}
	}
}
