package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/getmockd/tfxmock/pkg/config"
	"github.com/getmockd/tfxmock/pkg/logging"
	"github.com/getmockd/tfxmock/pkg/requestlog"
	"github.com/getmockd/tfxmock/pkg/store"
)

// State is the lifecycle state of a Server.
type State int

const (
	// StateUninitialized is the state before a successful Start.
	StateUninitialized State = iota
	// StateStarted means the server is accepting connections.
	StateStarted
	// StateStopped is terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultShutdownTimeout bounds how long Stop waits for in-flight requests.
const DefaultShutdownTimeout = 5 * time.Second

// Server owns the listener and lifecycle of one simulated backend.
type Server struct {
	cfg      *config.ServerConfiguration
	log      *slog.Logger
	store    *store.Store
	requests requestlog.Store
	handler  *Handler

	fixtures    *store.Fixtures
	storeOpts   []store.Option
	skipHistory bool

	mu         sync.RWMutex
	state      State
	listener   net.Listener
	httpServer *http.Server
	serveDone  chan struct{}
	baseURL    string
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore serves an existing store instead of building one from fixtures.
func WithStore(st *store.Store) ServerOption {
	return func(s *Server) {
		s.store = st
	}
}

// WithFixtures seeds the store from f instead of the default fixtures or
// the configured fixtures file.
func WithFixtures(f store.Fixtures) ServerOption {
	return func(s *Server) {
		s.fixtures = &f
	}
}

// WithClock sets the clock used for build timestamps.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.storeOpts = append(s.storeOpts, store.WithClock(now))
	}
}

// WithRequestLog records exchanges in rl. A nil rl disables recording.
func WithRequestLog(rl requestlog.Store) ServerOption {
	return func(s *Server) {
		s.requests = rl
		s.skipHistory = rl == nil
	}
}

// NewServer creates a Server for cfg. It does not bind anything; call Start.
func NewServer(cfg *config.ServerConfiguration, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg: cfg,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		f, err := s.seed()
		if err != nil {
			return nil, err
		}
		st, err := store.New(f, s.storeOpts...)
		if err != nil {
			return nil, fmt.Errorf("build store: %w", err)
		}
		s.store = st
	}
	if s.requests == nil && !s.skipHistory {
		s.requests = requestlog.NewInMemoryStore(cfg.MaxLogEntries)
	}

	s.handler = NewHandler(cfg, s.store, s.requests, s.log)
	s.baseURL = "http://" + cfg.Address()
	return s, nil
}

func (s *Server) seed() (store.Fixtures, error) {
	switch {
	case s.fixtures != nil:
		return *s.fixtures, nil
	case s.cfg.FixturesFile != "":
		f, err := store.LoadFixtures(s.cfg.FixturesFile)
		if err != nil {
			return store.Fixtures{}, fmt.Errorf("load fixtures: %w", err)
		}
		s.log.Info("fixtures loaded", "file", s.cfg.FixturesFile)
		return f, nil
	default:
		return store.DefaultFixtures(), nil
	}
}

// Start binds the configured address and serves in the background. It
// returns nil if the server is already started and ErrServerStopped once it
// has been stopped. A bind failure leaves the server startable.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateStarted:
		return nil
	case StateStopped:
		return ErrServerStopped
	}

	addr := s.cfg.Address()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}

	s.listener = ln
	s.baseURL = "http://" + net.JoinHostPort(s.cfg.Host, strconv.Itoa(boundPort(ln, s.cfg.Port)))
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeoutDuration(),
		WriteTimeout: s.cfg.WriteTimeoutDuration(),
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.serveDone = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}(s.httpServer, s.serveDone)

	s.state = StateStarted
	s.startTime = time.Now()
	s.log.Info("server started", "addr", ln.Addr().String(), "collection", s.cfg.Collection)
	return nil
}

// Stop shuts the server down, waiting up to DefaultShutdownTimeout for
// in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown closes the listener and drains in-flight requests until ctx is
// done. It is a no-op unless the server is started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStarted {
		return nil
	}
	s.state = StateStopped

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		_ = s.httpServer.Close()
		err = fmt.Errorf("HTTP shutdown: %w", err)
	}
	<-s.serveDone
	s.log.Info("server stopped", "uptime", time.Since(s.startTime).Round(time.Millisecond))
	return err
}

// State returns the lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsRunning reports whether the server is started.
func (s *Server) IsRunning() bool {
	return s.State() == StateStarted
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// BaseURL returns http://host:port. Once started it carries the bound port,
// which matters when port 0 was requested.
func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// CollectionURL returns the URL clients use as their service URL.
func (s *Server) CollectionURL() string {
	return s.BaseURL() + "/" + s.cfg.Collection
}

// Config returns a copy of the server configuration.
func (s *Server) Config() *config.ServerConfiguration {
	return s.cfg.Clone()
}

// Store returns the resource store served by the server.
func (s *Server) Store() *store.Store {
	return s.store
}

// RequestLog returns the request history, or nil when recording is off.
func (s *Server) RequestLog() requestlog.Store {
	return s.requests
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func boundPort(ln net.Listener, fallback int) int {
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return fallback
}
