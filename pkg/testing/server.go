package testing

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/tfxmock/pkg/config"
	"github.com/getmockd/tfxmock/pkg/engine"
	"github.com/getmockd/tfxmock/pkg/requestlog"
	"github.com/getmockd/tfxmock/pkg/store"
)

// Option customizes a test server.
type Option func(*options)

type options struct {
	cfg        *config.ServerConfiguration
	serverOpts []engine.ServerOption
}

// WithAuthRequired toggles the Authorization header check. It is on by
// default, as it is on the real service.
func WithAuthRequired(required bool) Option {
	return func(o *options) {
		o.cfg.AuthRequired = required
	}
}

// WithCollection sets the collection name served.
func WithCollection(name string) Option {
	return func(o *options) {
		o.cfg.Collection = name
	}
}

// WithConfig edits the server configuration before the server is built.
// Host and port are reset to an ephemeral loopback address afterwards.
func WithConfig(fn func(*config.ServerConfiguration)) Option {
	return func(o *options) {
		fn(o.cfg)
	}
}

// WithFixtures seeds the server with f.
func WithFixtures(f store.Fixtures) Option {
	return func(o *options) {
		o.serverOpts = append(o.serverOpts, engine.WithFixtures(f))
	}
}

// WithClock fixes the clock used for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.serverOpts = append(o.serverOpts, engine.WithClock(now))
	}
}

// WithLogger sends server logs to log instead of discarding them.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.serverOpts = append(o.serverOpts, engine.WithLogger(log))
	}
}

// MockServer is a running server owned by one test.
type MockServer struct {
	t      testing.TB
	server *engine.Server
	client *http.Client
}

// NewServer starts a server on 127.0.0.1 with an ephemeral port. The server
// is stopped when the test and its subtests complete.
func NewServer(t testing.TB, opts ...Option) *MockServer {
	t.Helper()

	o := &options{cfg: config.DefaultServerConfiguration()}
	for _, opt := range opts {
		opt(o)
	}
	o.cfg.Host = "127.0.0.1"
	o.cfg.Port = 0

	srv, err := engine.NewServer(o.cfg, o.serverOpts...)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	m := &MockServer{
		t:      t,
		server: srv,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	t.Cleanup(m.Stop)
	return m
}

// Stop stops the server. It is safe to call more than once.
func (m *MockServer) Stop() {
	if err := m.server.Stop(); err != nil {
		m.t.Logf("server stop: %v", err)
	}
	m.client.CloseIdleConnections()
}

// URL returns the base URL of the server.
func (m *MockServer) URL() string {
	return m.server.BaseURL()
}

// CollectionURL returns the URL a client uses as its service URL.
func (m *MockServer) CollectionURL() string {
	return m.server.CollectionURL()
}

// ProjectURL returns the collection URL scoped to project.
func (m *MockServer) ProjectURL(project string) string {
	return m.server.CollectionURL() + "/" + project
}

// Client returns an HTTP client for talking to the server.
func (m *MockServer) Client() *http.Client {
	return m.client
}

// Store returns the server's resource store for direct setup and checks.
func (m *MockServer) Store() *store.Store {
	return m.server.Store()
}

// Server returns the underlying engine.Server for advanced use cases.
func (m *MockServer) Server() *engine.Server {
	return m.server
}

// Reset restores the seed data and clears the request history.
func (m *MockServer) Reset() {
	m.server.Store().Reset()
	if rl := m.server.RequestLog(); rl != nil {
		rl.Clear()
	}
}

// Requests returns the recorded requests, newest first.
func (m *MockServer) Requests() []RequestLog {
	return m.requests(nil)
}

func (m *MockServer) requests(filter *requestlog.Filter) []RequestLog {
	rl := m.server.RequestLog()
	if rl == nil {
		return nil
	}
	entries := rl.List(filter)
	out := make([]RequestLog, len(entries))
	for i, e := range entries {
		out[i] = RequestLog{
			Method:      e.Method,
			Path:        e.Path,
			Project:     e.Project,
			User:        e.User,
			Status:      e.Status,
			BodyKind:    e.BodyKind,
			BodySize:    e.BodySize,
			Body:        e.Body,
			QueryString: e.Query,
			Error:       e.Error,
		}
	}
	return out
}

// AssertCalled asserts that an endpoint was called at least once.
func (m *MockServer) AssertCalled(t testing.TB, method, path string) {
	t.Helper()

	if m.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (m *MockServer) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()

	count := m.countCalls(method, path)
	if count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (m *MockServer) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()

	count := m.countCalls(method, path)
	if count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

func (m *MockServer) countCalls(method, path string) int {
	count := 0
	for _, r := range m.requests(&requestlog.Filter{Method: method}) {
		if matchesPath(r.Path, path) {
			count++
		}
	}
	return count
}

// matchesPath reports whether a recorded path matches expected. Segments are
// compared ignoring case; an expected {name} segment matches any value, and
// a trailing slash on either side is ignored. Patterns holding * or ** are
// matched as globs, so "/_apis/build/**" matches every build route.
func matchesPath(actual, expected string) bool {
	if strings.Contains(expected, "*") {
		pattern := strings.ToLower(strings.Trim(expected, "/"))
		ok, err := doublestar.Match(pattern, strings.ToLower(strings.Trim(actual, "/")))
		return err == nil && ok
	}

	actualParts := strings.Split(strings.Trim(actual, "/"), "/")
	expectedParts := strings.Split(strings.Trim(expected, "/"), "/")
	if len(actualParts) != len(expectedParts) {
		return false
	}

	for i, exp := range expectedParts {
		if strings.HasPrefix(exp, "{") && strings.HasSuffix(exp, "}") {
			continue
		}
		if !strings.EqualFold(exp, actualParts[i]) {
			return false
		}
	}
	return true
}
