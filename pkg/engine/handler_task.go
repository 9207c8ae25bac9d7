package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/archive"
	"github.com/getmockd/tfxmock/pkg/httputil"
	"github.com/getmockd/tfxmock/pkg/semver"
	"github.com/getmockd/tfxmock/pkg/store"
)

func (h *Handler) handleListTasks(w http.ResponseWriter, c *call) {
	filter, err := taskFilter(c)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	httputil.WriteList(w, h.store.ListTaskDefinitions(filter))
}

// handleGetTask lists the records of one task id. An unknown id yields an
// empty list, which is how the backend reports it.
func (h *Handler) handleGetTask(w http.ResponseWriter, c *call) {
	filter, err := taskFilter(c)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	filter.ID = c.params.ByName("id")
	httputil.WriteList(w, h.store.ListTaskDefinitions(filter))
}

func (h *Handler) handleGetTaskVersion(w http.ResponseWriter, c *call) {
	taskID := c.params.ByName("id")
	raw := c.params.ByName("version")
	want, err := semver.Parse(raw)
	if err != nil {
		h.fail(w, c, &store.ValidationError{Field: "versionString", Message: err.Error()})
		return
	}

	for _, t := range h.store.ListTaskDefinitions(store.TaskFilter{ID: taskID}) {
		if t.Version.Compare(want) == 0 {
			httputil.WriteOK(w, t)
			return
		}
	}
	h.fail(w, c, &store.NotFoundError{Kind: store.KindTaskDefinition, ID: taskID + "@" + want.String()})
}

func (h *Handler) handleUploadTask(w http.ResponseWriter, c *call) {
	taskID := c.params.ByName("id")
	overwrite, err := queryBool(c, "overwrite")
	if err != nil {
		h.fail(w, c, err)
		return
	}

	data := c.req.Body.Raw
	sum := sha256.Sum256(data)
	ack := types.TaskUploadResponse{
		ID:     taskID,
		Size:   len(data),
		SHA256: hex.EncodeToString(sum[:]),
	}

	manifest, err := archive.Inspect(data)
	switch {
	case errors.Is(err, archive.ErrNotArchive), errors.Is(err, archive.ErrNoManifest):
		h.log.Debug("task upload not registered", "id", taskID, "size", ack.Size, "reason", err)
		httputil.WriteOK(w, ack)
		return
	case err != nil:
		h.fail(w, c, &store.ValidationError{Field: archive.ManifestName, Message: err.Error()})
		return
	}

	def := manifest.TaskDefinition
	if def.ID == "" {
		def.ID = taskID
	}
	if !strings.EqualFold(def.ID, taskID) {
		h.fail(w, c, &store.ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("manifest id %s does not match task id %s", def.ID, taskID),
		})
		return
	}

	added, err := h.store.AddTaskDefinition(def, overwrite)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.log.Info("task registered", "id", added.ID, "version", added.Version.String(), "files", manifest.Files)
	ack.Registered = true
	ack.Task = added
	httputil.WriteOK(w, ack)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, c *call) {
	taskID := c.params.ByName("id")
	removed, err := h.store.DeleteTaskDefinition(taskID)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.log.Info("task deleted", "id", taskID, "records", removed)
	httputil.WriteNoContent(w)
}

// taskFilter reads the list options shared by the task routes. Only the
// newest version of each task is returned unless allVersions=true.
func taskFilter(c *call) (store.TaskFilter, error) {
	all, err := queryBool(c, "allVersions")
	if err != nil {
		return store.TaskFilter{}, err
	}
	return store.TaskFilter{
		OnlyNewest: !all,
		Visibility: c.req.First("visibility"),
	}, nil
}
