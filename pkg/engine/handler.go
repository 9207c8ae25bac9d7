package engine

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/getmockd/tfxmock/internal/id"
	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/config"
	"github.com/getmockd/tfxmock/pkg/httputil"
	"github.com/getmockd/tfxmock/pkg/logging"
	"github.com/getmockd/tfxmock/pkg/request"
	"github.com/getmockd/tfxmock/pkg/requestlog"
	"github.com/getmockd/tfxmock/pkg/store"
)

// ActivityIDHeader is set on every response.
const ActivityIDHeader = "ActivityId"

// Handler routes requests to the store. It is safe for concurrent use.
type Handler struct {
	store        *store.Store
	requests     requestlog.Store
	log          *slog.Logger
	router       *httprouter.Router
	collection   string
	authRequired bool
	maxBodySize  int64
	startTime    time.Time
}

// NewHandler creates a Handler serving st. A nil requests store records
// nothing; a nil log discards output.
func NewHandler(cfg *config.ServerConfiguration, st *store.Store, requests requestlog.Store, log *slog.Logger) *Handler {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	}
	if log == nil {
		log = logging.Nop()
	}
	h := &Handler{
		store:        st,
		requests:     requests,
		log:          log,
		collection:   cfg.Collection,
		authRequired: cfg.AuthRequired,
		maxBodySize:  cfg.MaxBodySize,
		startTime:    time.Now(),
	}
	h.router = newRouter(h)
	return h
}

// call carries per-request state through the pipeline.
type call struct {
	r          *http.Request
	req        *request.Request
	params     httprouter.Params
	route      string
	activityID string

	collection string
	project    string
	path       string

	user     string
	identity types.IdentityRef

	err error
}

// collectionURL is the public URL of the collection as seen by the client.
func (c *call) collectionURL(collection string) string {
	scheme := "http"
	if c.r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.r.Host + "/" + collection
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := newResponseWriter(w)
	c := &call{r: r, activityID: id.UUID(), identity: store.DefaultIdentity()}
	c.collection, c.project, c.path = splitScope(r.URL.Path)
	rw.Header().Set(ActivityIDHeader, c.activityID)

	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			h.log.Error("handler panic",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", v,
				"stack", string(debug.Stack()),
			)
			c.err = &internalError{value: v}
			if !rw.written {
				httputil.WriteError(rw, c.err)
			}
		}
		h.finish(rw, c, start)
	}()

	h.dispatch(rw, c)
}

func (h *Handler) dispatch(w http.ResponseWriter, c *call) {
	if c.collection != "" && !strings.EqualFold(c.collection, h.collection) {
		h.fail(w, c, &CollectionNotFoundError{Collection: c.collection})
		return
	}

	handle, ps := h.lookup(c.r.Method, c.path)
	if handle == nil {
		h.fail(w, c, &RouteNotFoundError{Method: c.r.Method, Path: c.r.URL.Path})
		return
	}
	handle(w, c.r.WithContext(withCall(c.r.Context(), c)), ps)
}

// serveRoute runs the auth gate, parses the body and calls the route.
func (h *Handler) serveRoute(w http.ResponseWriter, c *call, rt route) {
	if user := requestUser(c.r); user != "" {
		c.user = user
		c.identity = store.IdentityFor(user)
	}

	if !rt.public && h.authRequired && c.r.Header.Get("Authorization") == "" {
		w.Header().Set("WWW-Authenticate", `Basic realm="tfxmock"`)
		h.fail(w, c, &UnauthorizedError{Path: c.r.URL.Path})
		return
	}

	req, err := request.Parse(c.r, h.maxBodySize)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.req = req
	if c.project == "" {
		c.project = req.First("project")
	}

	rt.handle(h, w, c)
}

// fail writes err as the backend error body.
func (h *Handler) fail(w http.ResponseWriter, c *call, err error) {
	c.err = err
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.r.Method, "path", c.r.URL.Path, "status", status, "error", err)
		return
	}
	h.log.Warn("request rejected", "method", c.r.Method, "path", c.r.URL.Path, "status", status, "error", err)
}

// finish writes the access log line and records the exchange. Control
// routes are not recorded.
func (h *Handler) finish(rw *responseWriter, c *call, start time.Time) {
	duration := time.Since(start)
	h.log.Debug("request",
		"method", c.r.Method,
		"path", c.r.URL.Path,
		"status", rw.statusCode,
		"duration", duration,
		"activityId", c.activityID,
	)

	if h.requests == nil || strings.HasPrefix(c.path, adminPrefix+"/") {
		return
	}

	entry := &requestlog.Entry{
		Timestamp:  start,
		ActivityID: c.activityID,
		Method:     c.r.Method,
		Path:       c.path,
		RawPath:    c.r.URL.Path,
		Query:      c.r.URL.RawQuery,
		Collection: c.collection,
		Project:    c.project,
		User:       c.user,
		RemoteAddr: c.r.RemoteAddr,
		Status:     rw.statusCode,
		DurationMs: duration.Milliseconds(),
	}
	if c.req != nil {
		entry.BodyKind = c.req.Body.Kind.String()
		entry.BodySize = c.req.Body.Size()
		if c.req.Body.Kind == request.BodyJSON {
			entry.Body = requestlog.TruncateBody(c.req.Body.Raw)
		}
	} else {
		entry.BodyKind = request.Classify(c.r.Method, c.r.Header.Get("Content-Type"), c.r.URL.Path).String()
	}
	if c.err != nil {
		entry.Error = c.err.Error()
	}
	h.requests.Log(entry)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code and writes it to the underlying ResponseWriter.
func (w *responseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it.
func (w *responseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
