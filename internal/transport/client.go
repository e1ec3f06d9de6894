package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed between reads before the connection is considered dead
	pongWait = 60 * time.Second

	// Ping interval; must be shorter than pongWait
	pingPeriod = 54 * time.Second

	// Largest inbound frame accepted (updateGame snapshots can be big)
	maxFrameSize = 512 * 1024

	// Buffer size for outgoing frames
	sendBufferSize = 256
)

// FrameHandler consumes inbound frames and connection lifecycle events.
type FrameHandler interface {
	HandleFrame(ctx context.Context, conn Conn, frame string)
	HandleDisconnect(conn Conn)
}

// wsConn wraps a websocket connection with an owner identity and a buffered
// outbound queue. A single write pump drains the queue, so writes to the
// socket never interleave.
type wsConn struct {
	identity    string
	conn        *websocket.Conn
	send        chan string
	closed      chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
	logger      *slog.Logger
}

var _ Conn = (*wsConn)(nil)

func newWSConn(conn *websocket.Conn, identity string, connectedAt time.Time, logger *slog.Logger) *wsConn {
	return &wsConn{
		identity:    identity,
		conn:        conn,
		send:        make(chan string, sendBufferSize),
		closed:      make(chan struct{}),
		connectedAt: connectedAt,
		logger:      logger.With(slog.String("identity", identity)),
	}
}

// Identity returns the connection owner's identity.
func (c *wsConn) Identity() string {
	return c.identity
}

// Send enqueues a frame for the write pump. Frames to a closed connection
// are dropped; a full buffer also drops the frame rather than block the
// caller, so one stalled peer cannot back up a room or the heartbeat.
func (c *wsConn) Send(frame string) {
	select {
	case <-c.closed:
	default:
		select {
		case c.send <- frame:
		case <-c.closed:
		default:
			c.logger.Warn("outbound frame dropped, send buffer full")
		}
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *wsConn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// readPump reads frames off the socket and hands them to the handler, one at
// a time. It runs in the connection's own goroutine; returning triggers
// disconnect cleanup.
func (c *wsConn) readPump(ctx context.Context, handler FrameHandler) {
	defer func() {
		handler.HandleDisconnect(c)
		c.Close()
		c.logger.Info("connection closed",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		if messageType == websocket.TextMessage {
			handler.HandleFrame(ctx, c, string(message))
		}
	}
}

// writePump is the only goroutine that writes to the socket.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			deadline := time.Now().Add(writeWait)
			_ = c.conn.SetWriteDeadline(deadline)
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
