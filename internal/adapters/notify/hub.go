package notify

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Conn serializes writes to a websocket. gorilla/websocket allows one
// concurrent writer, so all frames go through a single write loop.
type Conn struct {
	ws   *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func NewConn(ws *websocket.Conn) *Conn {
	c := &Conn{
		ws:   ws,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.writeLoop()
	return c
}

// Send queues v for delivery. It reports false when the connection is
// closed or its buffer is full.
func (c *Conn) Send(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

// ReadJSON reads the next client frame. Only one goroutine may read.
func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

// Done is closed once the connection has been closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case v := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(v); err != nil {
				log.Printf("Error writing JSON to websocket: %v", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// NoticeMessage is the wire frame pushed for each notice.
type NoticeMessage struct {
	Type     string          `json:"type"`
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
}

// Hub pushes notices to every websocket a session has open.
// It implements ports.Notifier and is safe for concurrent use.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}
}

// NewHub builds a hub; checkOrigin may be nil to allow any origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		conns:    make(map[string]map[*Conn]struct{}),
	}
}

// Upgrade switches r to a websocket and wraps it in a Conn.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewConn(ws), nil
}

// Serve registers the websocket for sessionID and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.Upgrade(w, r)
	if err != nil {
		log.Printf("Error upgrading to websocket: %v", err)
		return
	}

	h.register(sessionID, conn)
	defer h.unregister(sessionID, conn)
	defer conn.Close()

	// Inbound frames are ignored; reading keeps pong handling alive and
	// surfaces the close.
	for {
		if _, _, err := conn.ws.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) Notify(ctx context.Context, sessionID string, n domain.Notice) {
	msg := NoticeMessage{Type: "notice", Message: n.Message, Severity: n.Severity}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns[sessionID] {
		if !c.Send(msg) {
			log.Printf("notice dropped session=%s: websocket buffer full or closed", sessionID)
		}
	}
}

// Connections returns the number of open websockets for sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

func (h *Hub) register(sessionID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[sessionID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(sessionID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.conns[sessionID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, sessionID)
	}
}
