package toast

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const (
	defaultHubBuffer = 64
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
)

// Hub pushes toasts to websocket clients. Each client gets a buffered
// channel; a client that falls behind loses toasts instead of stalling the
// stores.
type Hub struct {
	upgrader   websocket.Upgrader
	subs       map[int]chan Toast
	nextID     int
	bufferSize int
	closed     bool
	mu         sync.RWMutex
}

// NewHub creates a Hub with a per-client buffer of bufferSize toasts.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultHubBuffer
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			// The UI is served from a different origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs:       make(map[int]chan Toast),
		bufferSize: bufferSize,
	}
}

// Deliver implements Sink.
func (h *Hub) Deliver(t Toast) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- t:
		default:
			metrics.ToastsDropped.WithLabelValues("websocket").Inc()
		}
	}
}

// Subscribe registers a listener. The returned function unregisters it and
// closes the channel.
func (h *Hub) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, h.bufferSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Clients returns the number of connected listeners.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every listener.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// ServeHTTP upgrades the request to a websocket and streams toasts as JSON
// until the client goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("Toast websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	toasts, unsubscribe := h.Subscribe()
	defer unsubscribe()

	logger.Log.Debug("Toast websocket connected",
		zap.String("remoteAddr", r.RemoteAddr),
		zap.Int("clients", h.Clients()),
	)

	// Reads only serve to notice the close handshake and answer pongs.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Log.Debug("Toast websocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case t, ok := <-toasts:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(t); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
