package engine

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/httputil"
	"github.com/getmockd/tfxmock/pkg/store"
)

// queueBuildBody is the body of POST /_apis/build/builds.
type queueBuildBody struct {
	Definition *struct {
		ID json.Number `json:"id"`
	} `json:"definition"`
	DefinitionID json.Number `json:"definitionId"`
	SourceBranch string      `json:"sourceBranch"`
	Parameters   string      `json:"parameters"`
}

func (b *queueBuildBody) definitionID() (int, error) {
	raw := b.DefinitionID
	if b.Definition != nil && b.Definition.ID != "" {
		raw = b.Definition.ID
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw.String())
	if err != nil {
		return 0, &store.ValidationError{Field: "definition.id", Message: fmt.Sprintf("%q is not a valid id", raw)}
	}
	return n, nil
}

// updateBuildBody is the body of PATCH /_apis/build/builds/:id.
type updateBuildBody struct {
	Status *string `json:"status"`
	Result *string `json:"result"`
}

func (h *Handler) handleListBuilds(w http.ResponseWriter, c *call) {
	definitions, err := queryIDs(c, "definitions")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	top, err := queryInt(c, "$top")
	if err != nil {
		h.fail(w, c, err)
		return
	}

	builds, err := h.store.ListBuilds(store.BuildFilter{
		Project:       c.project,
		DefinitionIDs: definitions,
		Status:        c.req.First("statusFilter"),
		Top:           top,
	})
	if err != nil {
		h.fail(w, c, err)
		return
	}
	for _, b := range builds {
		h.decorateBuild(c, b)
	}
	httputil.WriteList(w, builds)
}

func (h *Handler) handleQueueBuild(w http.ResponseWriter, c *call) {
	var body queueBuildBody
	if err := c.req.Body.Decode(&body); err != nil {
		h.fail(w, c, &store.ValidationError{Message: "invalid build request: " + err.Error()})
		return
	}
	definitionID, err := body.definitionID()
	if err != nil {
		h.fail(w, c, err)
		return
	}

	b, err := h.store.QueueBuild(store.BuildRequest{
		DefinitionID: definitionID,
		Project:      c.project,
		SourceBranch: body.SourceBranch,
		Parameters:   body.Parameters,
		RequestedBy:  c.identity,
	})
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.log.Info("build queued", "id", b.ID, "definition", b.Definition.ID, "project", b.Project.Name)
	h.decorateBuild(c, b)
	httputil.WriteOK(w, b)
}

func (h *Handler) handleGetBuild(w http.ResponseWriter, c *call) {
	buildID, err := pathInt(c, "id")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	b, err := h.store.GetBuild(buildID, c.project)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateBuild(c, b)
	httputil.WriteOK(w, b)
}

func (h *Handler) handleUpdateBuild(w http.ResponseWriter, c *call) {
	buildID, err := pathInt(c, "id")
	if err != nil {
		h.fail(w, c, err)
		return
	}
	var body updateBuildBody
	if err := c.req.Body.Decode(&body); err != nil {
		h.fail(w, c, &store.ValidationError{Message: "invalid build update: " + err.Error()})
		return
	}

	b, err := h.store.UpdateBuild(buildID, c.project, store.BuildPatch{Status: body.Status, Result: body.Result})
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateBuild(c, b)
	httputil.WriteOK(w, b)
}

func (h *Handler) decorateBuild(c *call, b *types.Build) {
	base := c.collectionURL(h.collection)
	b.URL = base + "/" + b.Project.ID + "/_apis/build/Builds/" + strconv.Itoa(b.ID)
	b.Project.URL = base + "/_apis/projects/" + b.Project.ID
}
