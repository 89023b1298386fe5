package gateway

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// sendBuffer is the per-client outbound queue. A subscriber that falls this
// far behind the event stream is disconnected rather than allowed to stall
// the fan-out.
const sendBuffer = 256

// Client is one connected websocket session.
type Client struct {
	id     string
	conn   *websocket.Conn
	server *Server

	// Outbound frames, owned by the write pump
	send chan []byte

	// Inbound command budget, nil when limiting is disabled
	limiter *rate.Limiter

	// Whether this session receives the event stream
	subscribed atomic.Bool
}

func newClient(id string, conn *websocket.Conn, server *Server) *Client {
	var limiter *rate.Limiter
	if server.opts.RateLimit.CommandsPerSecond > 0 {
		limiter = rate.NewLimiter(
			rate.Limit(server.opts.RateLimit.CommandsPerSecond),
			server.opts.RateLimit.Burst,
		)
	}
	return &Client{
		id:      id,
		conn:    conn,
		server:  server,
		send:    make(chan []byte, sendBuffer),
		limiter: limiter,
	}
}

// enqueue hands a frame to the write pump. Reports false when the queue is
// full, meaning the client is too slow and must be dropped.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// readPump consumes client requests until the connection dies. It is the
// connection's only reader.
func (c *Client) readPump() {
	defer c.server.removeClient(c)

	if c.server.opts.MaxMessageBytes > 0 {
		c.conn.SetReadLimit(c.server.opts.MaxMessageBytes)
	}

	// Two missed pings and the connection is considered dead
	pongWait := 2 * c.server.opts.PingInterval
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.server.log("WARNING", "Client connection lost", map[string]interface{}{
					"client_id": c.id,
					"error":     err.Error(),
				})
			}
			return
		}
		c.server.handleFrame(c, frame)
	}
}

// writePump owns all writes on the connection: queued frames and keepalive
// pings. Exits when the send channel closes or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.server.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.server.opts.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.server.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
