package engine

import (
	"net/http"
	"strconv"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/httputil"
)

func (h *Handler) handleListDefinitions(w http.ResponseWriter, c *call) {
	defs, err := h.store.ListDefinitions(c.project, c.req.First("name"))
	if err != nil {
		h.fail(w, c, err)
		return
	}
	for _, d := range defs {
		h.decorateDefinition(c, d)
	}
	httputil.WriteList(w, defs)
}

func (h *Handler) handleGetDefinition(w http.ResponseWriter, c *call) {
	definitionID, err := pathInt(c, "id")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	d, err := h.store.GetDefinition(definitionID, c.project)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateDefinition(c, d)
	httputil.WriteOK(w, d)
}

func (h *Handler) decorateDefinition(c *call, d *types.Definition) {
	base := c.collectionURL(h.collection)
	d.URL = base + "/" + d.Project.ID + "/_apis/build/Definitions/" + strconv.Itoa(d.ID)
	d.Project.URL = base + "/_apis/projects/" + d.Project.ID
}
