// Package websocket provides the WebSocket server and connection handling.
// file: websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"car-showcase/logger"
	"car-showcase/models"
)

const broadcastBuffer = 64

// Hub fans catalog events out to every connected client. All connection
// bookkeeping happens on the Run goroutine.
type Hub struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	broadcast   chan []byte
	done        chan struct{}
	clients     atomic.Int64
}

// NewHub builds a hub. Browser requests are only accepted from allowedOrigins;
// with none given, any origin is accepted. Requests without an Origin header
// (non-browser clients) are always accepted.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte, broadcastBuffer),
		done:        make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for c := range h.connections {
			delete(h.connections, c)
			close(c.send)
		}
		h.clients.Store(0)
		logger.Info("websocket hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case c := <-h.register:
			h.connections[c] = true
			h.clients.Store(int64(len(h.connections)))
			logger.Debug("websocket client registered", zap.Stringer("remote", c.conn.RemoteAddr()), zap.Int("clients", len(h.connections)))

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.connections {
				select {
				case c.send <- msg:
				default:
					logger.Warn("websocket client too slow, dropping", zap.Stringer("remote", c.conn.RemoteAddr()))
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Connection) {
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
	h.clients.Store(int64(len(h.connections)))
}

// ClientCount is the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.clients.Load())
}

// Publish queues event for every client. It never blocks: when the hub is
// stopped or the queue is full the event is dropped.
func (h *Hub) Publish(event models.CatalogEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal catalog event", zap.Error(err))
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("entity", event.Entity), zap.String("action", event.Action), zap.Int64("id", event.ID))
	}
}

// ServeWs upgrades the request and starts the connection's pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		logger.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	c := newConnection(h, wsConn)
	select {
	case h.register <- c:
	case <-h.done:
		_ = wsConn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) unregisterConn(c *Connection) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
