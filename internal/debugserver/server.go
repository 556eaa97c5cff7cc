// Package debugserver is an optional WebSocket endpoint a host can start
// during development to broadcast the compile diagnostics and disassembly
// listings it passes to Broadcast, and to inspect the fibers currently
// registered with it. Messages sent by clients are read and discarded.
// The connection-upgrade pattern (permissive Upgrader.CheckOrigin, a
// clients map guarded by sync.RWMutex, a per-client write mutex) is the
// conventional gorilla/websocket broadcast-server shape, here serving
// compiler diagnostics instead of a generic event stream.
package debugserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"tessera/internal/value"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Diagnostic tooling connects from a local editor/devtool, not a
	// browser origin that needs checking, following
	// websocket_server.go's own permissive CheckOrigin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Diagnostic is one message broadcast to every connected client: a compile
// error, a disassembly listing, or a fiber-registry change.
type Diagnostic struct {
	Kind    string `json:"kind"` // "error", "disasm", "fiber"
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *client) send(msg Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}

// Server accepts WebSocket connections and broadcasts Diagnostics to all
// of them, while also tracking the set of live fibers a host has
// registered — the debug server's reason to exist beyond a plain log
// tail is giving a connected tool something to inspect.
type Server struct {
	mu      sync.RWMutex
	clients map[string]*client
	fibers  map[uuid.UUID]*value.FiberObj

	httpServer *http.Server
}

// New constructs a Server listening on addr once Serve is called.
func New(addr string) *Server {
	s := &Server{
		clients: make(map[string]*client),
		fibers:  make(map[uuid.UUID]*value.FiberObj),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/diagnostics", s.handleWS)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := uuid.New().String()
	c := &client{conn: conn}

	s.mu.Lock()
	s.clients[id] = c
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		c.close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends msg to every currently connected client.
func (s *Server) Broadcast(msg Diagnostic) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		_ = c.send(msg)
	}
}

// RegisterFiber adds fiber to the inspectable registry and broadcasts its
// arrival. Intended to be called by an embedder driving fibers directly,
// since the dispatch loop that would otherwise do this is out of scope of
// this core.
func (s *Server) RegisterFiber(fiber *value.FiberObj) {
	s.mu.Lock()
	s.fibers[fiber.ID] = fiber
	s.mu.Unlock()
	s.Broadcast(Diagnostic{Kind: "fiber", Message: fiber.ID.String() + " registered"})
}

// UnregisterFiber removes fiber from the registry.
func (s *Server) UnregisterFiber(fiber *value.FiberObj) {
	s.mu.Lock()
	delete(s.fibers, fiber.ID)
	s.mu.Unlock()
}

// Fibers returns a snapshot of the currently registered fiber IDs.
func (s *Server) Fibers() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.fibers))
	for id := range s.fibers {
		ids = append(ids, id)
	}
	return ids
}

// Serve runs the HTTP listener until ctx is canceled, using an errgroup to
// join the listener goroutine with the shutdown goroutine that closes it
// on cancellation — following the fan-out/join shape x/sync/errgroup is
// built for, in place of a hand-rolled done channel.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.httpServer.Close()
	})

	return g.Wait()
}

// MarshalDiagnostic renders a Diagnostic as it would appear on the wire,
// without standing up a real connection.
func MarshalDiagnostic(msg Diagnostic) (string, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
