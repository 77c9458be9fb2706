// Package broadcast streams presentation frames to external renderers over
// WebSocket. Each client gets its own write pump and send queue; a client
// whose queue fills up is disconnected.
package broadcast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	defaultSendBuf = 32
)

// FrameType is the envelope type of presentation frames.
const FrameType = "frame"

// Envelope is the wire format of every message.
type Envelope struct {
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
	Type string          `json:"type"`
}

// Hub tracks connected clients and fans frames out to them.
type Hub struct {
	logger  *slog.Logger
	clients map[*client]struct{}
	now     func() time.Time
	last    []byte
	sendBuf int
	mu      sync.Mutex
	closed  bool
}

// NewHub returns a hub. A nil logger uses slog.Default().
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
		now:     time.Now,
		sendBuf: defaultSendBuf,
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes v as a frame and queues it for every client. The latest
// frame is replayed to clients that connect later. It never blocks.
func (h *Hub) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ts := h.now().UTC()
	msg, err := json.Marshal(Envelope{Type: FrameType, Ts: &ts, Data: data})
	if err != nil {
		return err
	}

	var slow []*client
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.remove(c, "slow_client")
	}
	return nil
}

// Close disconnects every client. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.closed = true
	h.mu.Unlock()

	for c := range clients {
		c.shutdown()
	}
}

// Handler upgrades requests to WebSocket connections and registers them.
func (h *Hub) Handler() http.Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", "error", err)
			return
		}

		c := &client{
			hub:        h,
			conn:       conn,
			send:       make(chan []byte, h.sendBuf),
			remoteAddr: r.RemoteAddr,
		}
		if !h.add(c) {
			_ = conn.Close()
			return
		}

		// Pumps outlive the request; the hub owns the connection.
		go c.writePump()
		go c.readPump()
	})
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.logger.Info("ws client registered", "remote_addr", c.remoteAddr, "clients", len(h.clients))
	return true
}

func (h *Hub) remove(c *client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.shutdown()
		h.logger.Info("ws client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	once       sync.Once
}

// shutdown closes the send queue, which stops the write pump.
func (c *client) shutdown() {
	c.once.Do(func() { close(c.send) })
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("write", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("ping", err)
				return
			}
		}
	}
}

// readPump discards inbound messages so control frames are handled and
// disconnects are noticed.
func (c *client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("read", err)
			c.hub.remove(c, "unregister")
			return
		}
	}
}

func (c *client) logExit(op string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.hub.logger.Debug("ws pump exiting (close)", "op", op, "remote_addr", c.remoteAddr, "code", ce.Code)
		return
	}
	c.hub.logger.Debug("ws pump exiting", "op", op, "remote_addr", c.remoteAddr, "error", err)
}
