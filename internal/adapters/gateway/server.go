package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	appBuilding "github.com/alanli-ML/ai-rts-sub008/internal/application/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/logging"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// Options tunes one gateway server instance.
type Options struct {
	// HTTP path clients connect to
	Path string

	// Maximum simultaneous client connections (0 = unlimited)
	MaxClients int

	// Maximum inbound message size in bytes (0 = gorilla default)
	MaxMessageBytes int64

	// How long one outbound write may block before the client is dropped
	WriteTimeout time.Duration

	// Interval between keepalive pings
	PingInterval time.Duration

	// Per-connection inbound command budget
	RateLimit RateLimitOptions
}

// RateLimitOptions holds the token-bucket limits for one connection.
type RateLimitOptions struct {
	CommandsPerSecond float64
	Burst             int
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = "/ws"
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	return o
}

// Metrics receives connection lifecycle observations. Implementations must
// be safe for concurrent use. All hooks are optional; a nil Metrics is fine.
type Metrics interface {
	ClientConnected()
	ClientDisconnected()
	CommandReceived()
	EventBroadcast()
	RateLimited()
}

// Server upgrades websocket clients, dispatches their requests into the
// mediator and fans the building event stream out to subscribers. A single
// hub goroutine owns the client registry, so registration, removal and
// broadcast never race.
type Server struct {
	mediator mediator.Mediator
	bus      *appBuilding.BuildingEventBus
	logger   logging.Logger
	metrics  Metrics
	opts     Options

	httpServer *http.Server
	upgrader   websocket.Upgrader
	addr       atomic.Value // string, set once listening

	// Hub state, owned by the run goroutine
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     <-chan building.Event

	clientCount atomic.Int64
	done        chan struct{}
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewServer creates a gateway around the given dispatch and event surfaces.
// logger is optional.
func NewServer(m mediator.Mediator, bus *appBuilding.BuildingEventBus, logger logging.Logger, opts Options) *Server {
	return &Server{
		mediator: m,
		bus:      bus,
		logger:   logger,
		opts:     opts.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The daemon fronts a game server on a trusted network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetMetrics installs connection metrics hooks. Call before Start.
func (s *Server) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// Start begins listening on the given address. Returns once the listener is
// bound; serving continues in the background until Shutdown.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.addr.Store(listener.Addr().String())

	mux := http.NewServeMux()
	mux.HandleFunc(s.opts.Path, s.handleWS)
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.events = s.bus.SubscribeAll()

	s.wg.Add(1)
	go s.run()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log("ERROR", "Gateway server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log("INFO", "Gateway listening", map[string]interface{}{
		"address": listener.Addr().String(),
		"path":    s.opts.Path,
	})
	return nil
}

// Addr returns the bound listen address, useful when Start was given ":0".
func (s *Server) Addr() string {
	if addr, ok := s.addr.Load().(string); ok {
		return addr
	}
	return ""
}

// Shutdown stops accepting connections, closes every client and waits for
// the hub to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}
		if s.events != nil {
			s.bus.UnsubscribeAll(s.events)
		}
		close(s.done)
		s.wg.Wait()
		s.log("INFO", "Gateway stopped", nil)
	})
	return err
}

// run is the hub goroutine: the only place the client registry is touched.
func (s *Server) run() {
	defer s.wg.Done()

	for {
		select {
		case c := <-s.register:
			s.clients[c] = struct{}{}

		case c := <-s.unregister:
			s.dropClient(c, "")

		case event, ok := <-s.events:
			if !ok {
				// Unsubscribed during shutdown; block this arm from now on
				s.events = nil
				continue
			}
			s.fanOut(event)

		case <-s.done:
			for c := range s.clients {
				s.dropClient(c, "")
			}
			return
		}
	}
}

// dropClient removes a client from the registry. Run goroutine only.
func (s *Server) dropClient(c *Client, reason string) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.clientCount.Add(-1)
	if s.metrics != nil {
		s.metrics.ClientDisconnected()
	}
	if reason != "" {
		s.log("WARNING", "Dropping client", map[string]interface{}{
			"client_id": c.id,
			"reason":    reason,
		})
	}
}

// fanOut pushes one event to every subscribed client. Run goroutine only.
func (s *Server) fanOut(event building.Event) {
	if len(s.clients) == 0 {
		return
	}

	frame, err := json.Marshal(EventMessage{
		Type:       MessageTypeEvent,
		Event:      string(event.Kind()),
		BuildingID: event.BuildingID(),
		TeamID:     event.Team(),
		Data:       event,
	})
	if err != nil {
		s.log("ERROR", "Failed to encode event", map[string]interface{}{
			"event": string(event.Kind()),
			"error": err.Error(),
		})
		return
	}

	for c := range s.clients {
		if !c.subscribed.Load() {
			continue
		}
		if c.enqueue(frame) {
			if s.metrics != nil {
				s.metrics.EventBroadcast()
			}
		} else {
			s.dropClient(c, "event queue overflow")
		}
	}
}

// handleWS upgrades one HTTP request into a websocket session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxClients > 0 && s.clientCount.Load() >= int64(s.opts.MaxClients) {
		http.Error(w, "client limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log("WARNING", "Upgrade failed", map[string]interface{}{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		})
		return
	}

	client := newClient("client-"+uuid.NewString()[:8], conn, s)
	s.clientCount.Add(1)

	select {
	case s.register <- client:
	case <-s.done:
		s.clientCount.Add(-1)
		conn.Close()
		return
	}

	if s.metrics != nil {
		s.metrics.ClientConnected()
	}
	s.log("INFO", "Client connected", map[string]interface{}{
		"client_id": client.id,
		"remote":    r.RemoteAddr,
	})

	go client.writePump()
	go client.readPump()
}

// removeClient funnels a dead connection back to the hub. Safe to call from
// any goroutine; a no-op once the hub has shut down.
func (s *Server) removeClient(c *Client) {
	select {
	case s.unregister <- c:
	case <-s.done:
	}
}

func (s *Server) log(level, message string, metadata map[string]interface{}) {
	if s.logger != nil {
		s.logger.Log(level, message, metadata)
	}
}
