package engine

import (
	"net/http"
	"strings"

	"github.com/getmockd/tfxmock/internal/id"
	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/httputil"
)

const (
	serviceOwner         = "00025394-6065-48ca-87d9-7f5672854ef7"
	publicAccessMoniker  = "PublicAccessMapping"
	deploymentTypeOnPrem = "onPremises"
)

func (h *Handler) handleConnectionData(w http.ResponseWriter, c *call) {
	user := types.ConnectionIdentity{
		ID:                  c.identity.ID,
		ProviderDisplayName: c.identity.DisplayName,
		IsActive:            true,
	}
	httputil.WriteOK(w, types.ConnectionData{
		AuthenticatedUser: user,
		AuthorizedUser:    user,
		InstanceID:        id.NameUUID("instance", h.collection),
		DeploymentID:      id.NameUUID("deployment", h.collection),
		DeploymentType:    deploymentTypeOnPrem,
		LocationServiceData: types.LocationServiceData{
			ServiceOwner:                serviceOwner,
			DefaultAccessMappingMoniker: publicAccessMoniker,
			AccessMappings: []types.AccessMapping{{
				DisplayName: "Public Access Mapping",
				Moniker:     publicAccessMoniker,
				AccessPoint: c.collectionURL(h.collection),
			}},
		},
	})
}

func (h *Handler) handleListProjects(w http.ResponseWriter, c *call) {
	projects := h.store.ListProjects()
	for i := range projects {
		h.decorateProject(c, &projects[i])
	}
	httputil.WriteList(w, projects)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, c *call) {
	p, err := h.store.GetProject(c.params.ByName("project"))
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.decorateProject(c, &p)
	httputil.WriteOK(w, p)
}

func (h *Handler) decorateProject(c *call, p *types.TeamProjectReference) {
	p.URL = c.collectionURL(h.collection) + "/_apis/projects/" + p.ID
}

// handleOptions lists the resource locations of an area, or of every area
// when none is named.
func (h *Handler) handleOptions(w http.ResponseWriter, c *call) {
	area := strings.Trim(c.params.ByName("area"), "/")
	if i := strings.IndexByte(area, '/'); i >= 0 {
		area = area[:i]
	}
	httputil.WriteList(w, locationsFor(area))
}
