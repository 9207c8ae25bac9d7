package engine

import (
	"net/http"
	"strconv"
	"time"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/httputil"
	"github.com/getmockd/tfxmock/pkg/requestlog"
	"github.com/getmockd/tfxmock/pkg/store"
)

// statusResponse is returned by GET /__mock/status.
type statusResponse struct {
	Collection   string       `json:"collection"`
	AuthRequired bool         `json:"authRequired"`
	Uptime       int          `json:"uptime"`
	Records      store.Counts `json:"records"`
	Requests     int          `json:"requests"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, c *call) {
	httputil.WriteOK(w, types.HealthResponse{
		Status:    "ok",
		Uptime:    int(time.Since(h.startTime).Seconds()),
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, c *call) {
	resp := statusResponse{
		Collection:   h.collection,
		AuthRequired: h.authRequired,
		Uptime:       int(time.Since(h.startTime).Seconds()),
		Records:      h.store.Counts(),
	}
	if h.requests != nil {
		resp.Requests = h.requests.Count()
	}
	httputil.WriteOK(w, resp)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, c *call) {
	if h.requests == nil {
		httputil.WriteList(w, []*requestlog.Entry{})
		return
	}
	filter, err := requestFilter(c)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	httputil.WriteList(w, h.requests.List(filter))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, c *call) {
	entryID := c.params.ByName("id")
	var entry *requestlog.Entry
	if h.requests != nil {
		entry = h.requests.Get(entryID)
	}
	if entry == nil {
		h.fail(w, c, &store.NotFoundError{Kind: "request", ID: entryID})
		return
	}
	httputil.WriteOK(w, entry)
}

func (h *Handler) handleClearRequests(w http.ResponseWriter, c *call) {
	if h.requests != nil {
		h.requests.Clear()
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) handleReset(w http.ResponseWriter, c *call) {
	h.store.Reset()
	if h.requests != nil {
		h.requests.Clear()
	}
	h.log.Info("state reset to fixtures")
	httputil.WriteOK(w, types.MessageResponse{Message: "state reset"})
}

// requestFilter reads history filters from the query string.
func requestFilter(c *call) (*requestlog.Filter, error) {
	filter := &requestlog.Filter{
		Method:  c.req.First("method"),
		Path:    c.req.First("path"),
		Project: c.req.First("project"),
	}
	var err error
	if filter.Status, err = queryInt(c, "status"); err != nil {
		return nil, err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return nil, err
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return nil, err
	}
	if raw := c.req.First("hasError"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &store.ValidationError{Field: "hasError", Message: strconv.Quote(raw) + " is not a boolean"}
		}
		filter.HasError = &b
	}
	return filter, nil
}
