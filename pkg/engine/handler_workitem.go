package engine

import (
	"net/http"
	"strconv"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/httputil"
	"github.com/getmockd/tfxmock/pkg/store"
)

func (h *Handler) handleListWorkItems(w http.ResponseWriter, c *call) {
	ids, err := queryIDs(c, "ids")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	items, err := h.store.GetWorkItems(ids)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	for _, wi := range items {
		h.decorateWorkItem(c, wi)
	}
	httputil.WriteList(w, items)
}

func (h *Handler) handleGetWorkItem(w http.ResponseWriter, c *call) {
	workItemID, err := pathInt(c, "id")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	wi, err := h.store.GetWorkItem(workItemID)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateWorkItem(c, wi)
	httputil.WriteOK(w, wi)
}

func (h *Handler) handleUpdateWorkItem(w http.ResponseWriter, c *call) {
	workItemID, err := pathInt(c, "id")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	patch, err := parseFieldPatch(c)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	wi, err := h.store.UpdateWorkItem(workItemID, patch)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateWorkItem(c, wi)
	httputil.WriteOK(w, wi)
}

func (h *Handler) handleCreateWorkItem(w http.ResponseWriter, c *call) {
	patch, err := parseFieldPatch(c)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	if c.project != "" {
		if _, ok := patch.Set[store.FieldTeamProject]; !ok {
			p, err := h.store.GetProject(c.project)
			if err != nil {
				h.fail(w, c, err)
				return
			}
			patch.Set[store.FieldTeamProject] = p.Name
		}
	}

	wi, err := h.store.CreateWorkItem(c.params.ByName("type"), patch.Set)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.log.Info("work item created", "id", wi.ID, "type", wi.Fields[store.FieldWorkItemType])
	h.decorateWorkItem(c, wi)
	httputil.WriteOK(w, wi)
}

func (h *Handler) decorateWorkItem(c *call, wi *types.WorkItem) {
	wi.URL = c.collectionURL(h.collection) + "/_apis/wit/workItems/" + strconv.Itoa(wi.ID)
}
