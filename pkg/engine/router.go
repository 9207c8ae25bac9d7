package engine

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// handleFunc serves one route. Failures go through h.fail.
type handleFunc func(h *Handler, w http.ResponseWriter, c *call)

type route struct {
	method string
	path   string
	handle handleFunc
	// public routes skip the auth gate.
	public bool
}

// apiPrefix separates the collection/project scope from the resource path.
const apiPrefix = "/_apis"

// adminPrefix is the root of the server's own control routes.
const adminPrefix = "/__mock"

var routes = []route{
	{http.MethodGet, "/_apis/connectionData", (*Handler).handleConnectionData, false},
	{http.MethodGet, "/_apis/projects", (*Handler).handleListProjects, false},
	{http.MethodGet, "/_apis/projects/:project", (*Handler).handleGetProject, false},

	{http.MethodGet, "/_apis/build/definitions", (*Handler).handleListDefinitions, false},
	{http.MethodGet, "/_apis/build/definitions/:id", (*Handler).handleGetDefinition, false},
	{http.MethodGet, "/_apis/build/builds", (*Handler).handleListBuilds, false},
	{http.MethodPost, "/_apis/build/builds", (*Handler).handleQueueBuild, false},
	{http.MethodGet, "/_apis/build/builds/:id", (*Handler).handleGetBuild, false},
	{http.MethodPatch, "/_apis/build/builds/:id", (*Handler).handleUpdateBuild, false},

	{http.MethodGet, "/_apis/distributedtask/tasks", (*Handler).handleListTasks, false},
	{http.MethodGet, "/_apis/distributedtask/tasks/:id", (*Handler).handleGetTask, false},
	{http.MethodGet, "/_apis/distributedtask/tasks/:id/:version", (*Handler).handleGetTaskVersion, false},
	{http.MethodPut, "/_apis/distributedtask/tasks/:id", (*Handler).handleUploadTask, false},
	{http.MethodDelete, "/_apis/distributedtask/tasks/:id", (*Handler).handleDeleteTask, false},

	{http.MethodGet, "/_apis/wit/workitems", (*Handler).handleListWorkItems, false},
	{http.MethodGet, "/_apis/wit/workitems/:id", (*Handler).handleGetWorkItem, false},
	{http.MethodPatch, "/_apis/wit/workitems/:id", (*Handler).handleUpdateWorkItem, false},
	{http.MethodPost, "/_apis/wit/workitems/:type", (*Handler).handleCreateWorkItem, false},

	// OPTIONS is the only method registered with a catch-all, so it cannot
	// shadow a static route.
	{http.MethodOptions, "/_apis/*area", (*Handler).handleOptions, false},

	{http.MethodGet, "/__mock/health", (*Handler).handleHealth, true},
	{http.MethodGet, "/__mock/status", (*Handler).handleStatus, true},
	{http.MethodGet, "/__mock/requests", (*Handler).handleListRequests, true},
	{http.MethodGet, "/__mock/requests/:id", (*Handler).handleGetRequest, true},
	{http.MethodDelete, "/__mock/requests", (*Handler).handleClearRequests, true},
	{http.MethodPost, "/__mock/reset", (*Handler).handleReset, true},
}

type callKey struct{}

// newRouter builds the route table. Patterns are registered lowercased so
// that the case-folded retry in lookup can reach every route. The router is
// only used for lookups; redirects, automatic OPTIONS and 405 handling are
// disabled.
func newRouter(h *Handler) *httprouter.Router {
	r := httprouter.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.HandleMethodNotAllowed = false
	r.HandleOPTIONS = false

	for _, rt := range routes {
		pattern := asciiLower(rt.path)
		r.Handle(rt.method, pattern, func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
			c, _ := req.Context().Value(callKey{}).(*call)
			if c == nil {
				return
			}
			c.params = restoreParams(pattern, c.path, ps)
			c.route = rt.path
			h.serveRoute(w, c, rt)
		})
	}
	return r
}

// lookup finds the route for method and path. Matching ignores ASCII case
// in the path, and a path that only differs by a trailing slash matches too.
func (h *Handler) lookup(method, path string) (httprouter.Handle, httprouter.Params) {
	if handle, ps := h.lookupExact(method, path); handle != nil {
		return handle, ps
	}
	if lower := asciiLower(path); lower != path {
		return h.lookupExact(method, lower)
	}
	return nil, nil
}

func (h *Handler) lookupExact(method, path string) (httprouter.Handle, httprouter.Params) {
	handle, ps, tsr := h.router.Lookup(method, path)
	if handle != nil || !tsr {
		return handle, ps
	}
	alt := path + "/"
	if strings.HasSuffix(path, "/") {
		alt = strings.TrimSuffix(path, "/")
	}
	handle, ps, _ = h.router.Lookup(method, alt)
	return handle, ps
}

// restoreParams takes parameter values from the original path so that a
// case-folded lookup still hands handlers the client's spelling.
func restoreParams(pattern, path string, ps httprouter.Params) httprouter.Params {
	if len(ps) == 0 {
		return ps
	}
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	out := make(httprouter.Params, 0, len(ps))
	for i, seg := range patSegs {
		if i >= len(pathSegs) {
			break
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			out = append(out, httprouter.Param{Key: seg[1:], Value: pathSegs[i]})
		case strings.HasPrefix(seg, "*"):
			out = append(out, httprouter.Param{Key: seg[1:], Value: "/" + strings.Join(pathSegs[i:], "/")})
		}
	}
	if len(out) != len(ps) {
		return ps
	}
	return out
}

// asciiLower lowercases ASCII letters only, keeping byte offsets intact.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, ch := range b {
		if 'A' <= ch && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

func withCall(ctx context.Context, c *call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// splitScope splits a request path into its collection and project scope
// and the resource path starting at /_apis. Paths without /_apis carry no
// scope and are returned unchanged. Segments after the project (a team)
// are dropped.
func splitScope(p string) (collection, project, rest string) {
	idx := -1
	for i := 0; ; {
		j := strings.Index(p[i:], apiPrefix)
		if j < 0 {
			break
		}
		end := i + j + len(apiPrefix)
		if end == len(p) || p[end] == '/' {
			idx = i + j
			break
		}
		i = end
	}
	if idx < 0 {
		return "", "", p
	}

	rest = p[idx:]
	var segments []string
	for _, s := range strings.Split(p[:idx], "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) > 0 {
		collection = segments[0]
	}
	if len(segments) > 1 {
		project = segments[1]
	}
	return collection, project, rest
}
