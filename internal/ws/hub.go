// Package ws serves live frames, diagnostics and a control channel over
// websockets, plus a couple of plain JSON endpoints.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/halo/internal/diagnostics"
	"github.com/coreman2200/halo/internal/strip"
)

// sendQueue is how many messages a slow client may fall behind by before
// new ones are dropped for it.
const sendQueue = 8

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump owns every write to the connection. It runs until send is closed.
func (c *client) writePump() {
	defer c.conn.Close()
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("ws write")
			// unblocks the reader, which unregisters and closes send
			c.conn.Close()
		}
	}
}

type Hub struct {
	mu          sync.RWMutex
	Count       int
	DriverName  string
	Brightness  func() float64
	layers      []string
	frameID     uint64
	renderMS    float64
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	dropped     atomic.Uint64

	cmds chan Command
}

func NewHub(count int, driverName string) *Hub {
	return &Hub{
		Count:       count,
		DriverName:  driverName,
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		cmds:        make(chan Command, 64),
	}
}

// Mux routes every endpoint the hub serves.
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/layers", h.HandleLayers)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// Commands yields control messages in arrival order.
func (h *Hub) Commands() <-chan Command { return h.cmds }

// Drain hands every queued command to fn without blocking.
func (h *Hub) Drain(fn func(Command)) {
	for {
		select {
		case c := <-h.cmds:
			fn(c)
		default:
			return
		}
	}
}

func (h *Hub) PublishLayers(names []string) {
	h.mu.Lock()
	h.layers = append([]string(nil), names...)
	h.mu.Unlock()
}

// RecordRender notes how long the last frame took to composite.
func (h *Hub) RecordRender(ms float64) {
	h.mu.Lock()
	h.renderMS = ms
	h.mu.Unlock()
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.diagClients)
}

func (h *Hub) register(w http.ResponseWriter, r *http.Request, set map[*client]bool) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	h.mu.Lock()
	set[c] = true
	h.mu.Unlock()

	go c.writePump()
	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, c)
			h.mu.Unlock()
			close(c.send)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var c Command
		if err := json.Unmarshal(data, &c); err != nil {
			log.Debug().Err(err).Msg("bad control message")
			continue
		}
		if !h.Enqueue(c) {
			log.Warn().Str("type", c.Type).Msg("control queue full, dropping")
		}
	}
}

// Enqueue queues c for the render goroutine. It reports false when the
// queue is full.
func (h *Hub) Enqueue(c Command) bool {
	select {
	case h.cmds <- c:
		return true
	default:
		return false
	}
}

func (h *Hub) HandleLayers(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	names := h.layers
	if names == nil {
		names = []string{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"layers": names})
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"frame_id":  h.frameID,
		"render_ms": h.renderMS,
		"uptime_s":  time.Since(h.startTime).Seconds(),
		"count":     h.Count,
		"driver":    h.DriverName,
		"layers":    len(h.layers),
		"dropped":   h.dropped.Load(),
	}
	if h.Brightness != nil {
		resp["brightness"] = h.Brightness()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Write broadcasts a frame to every /ws client as packed RGB bytes.
func (h *Hub) Write(px []strip.Color) error {
	rgb := make([]byte, 0, len(px)*3)
	for _, c := range px {
		n := c.NRGBA()
		rgb = append(rgb, n.R, n.G, n.B)
	}
	h.mu.Lock()
	h.frameID++
	id := h.frameID
	h.mu.Unlock()

	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	h.broadcast(h.clients, b)
	return nil
}

// Push sends a diagnostic to every /diag client.
func (h *Hub) Push(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	h.broadcast(h.diagClients, b)
}

// broadcast queues b for every client in set without waiting on the network.
// Clients whose queue is full miss the message.
func (h *Hub) broadcast(set map[*client]bool, b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range set {
		select {
		case c.send <- b:
		default:
			h.dropped.Add(1)
		}
	}
}

// Dropped is the number of messages skipped for slow clients.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Clients reports the number of frame and diagnostic subscribers.
func (h *Hub) Clients() (frames, diags int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.diagClients)
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
	for c := range h.diagClients {
		c.conn.Close()
	}
	return nil
}
