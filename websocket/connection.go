// Package websocket provides the WebSocket server and connection handling.
// file: websocket/connection.go
package websocket

import (
	"net"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"car-showcase/logger"
)

// WSConn is the subset of *websocket.Conn a Connection needs.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one client.
type Connection struct {
	hub  *Hub
	conn WSConn
	send chan []byte
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
	sendBuffer     = 256
)

func newConnection(h *Hub, conn WSConn) *Connection {
	return &Connection{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
}

// readPump keeps the read deadline fresh and detects disconnects. Clients only
// listen, so inbound text is discarded.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregisterConn(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Stringer("remote", c.conn.RemoteAddr()), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
	}
}

// writePump delivers queued events and pings the client every pingPeriod.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug("websocket send channel closed", zap.Stringer("remote", c.conn.RemoteAddr()))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error", zap.Stringer("remote", c.conn.RemoteAddr()), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn("websocket ping error", zap.Stringer("remote", c.conn.RemoteAddr()), zap.Error(err))
				return
			}
		}
	}
}
