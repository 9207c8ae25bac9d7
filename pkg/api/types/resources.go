package types

import (
	"time"

	"github.com/getmockd/tfxmock/pkg/semver"
)

// Build status values.
const (
	BuildStatusNone       = "none"
	BuildStatusNotStarted = "notStarted"
	BuildStatusInProgress = "inProgress"
	BuildStatusCompleted  = "completed"
	BuildStatusCancelling = "cancelling"
	BuildStatusPostponed  = "postponed"
	BuildStatusAll        = "all"
)

// Build result values.
const (
	BuildResultNone               = "none"
	BuildResultSucceeded          = "succeeded"
	BuildResultPartiallySucceeded = "partiallySucceeded"
	BuildResultFailed             = "failed"
	BuildResultCanceled           = "canceled"
)

// IdentityRef is a reference to a user.
type IdentityRef struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	UniqueName  string `json:"uniqueName" yaml:"uniqueName"`
}

// TeamProjectReference is a reference to a project.
type TeamProjectReference struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	State string `json:"state,omitempty" yaml:"state,omitempty"`
	URL   string `json:"url,omitempty" yaml:"-"`
}

// DefinitionReference is the slice of a definition embedded in a build.
type DefinitionReference struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Definition is a build definition. Definitions are seed data only.
type Definition struct {
	ID          int                  `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Path        string               `json:"path" yaml:"path"`
	Revision    int                  `json:"revision" yaml:"revision"`
	Type        string               `json:"type" yaml:"type"`
	QueueStatus string               `json:"queueStatus" yaml:"queueStatus"`
	Project     TeamProjectReference `json:"project" yaml:"project"`
	URL         string               `json:"url,omitempty" yaml:"-"`
}

// Reference returns the reference form of d.
func (d *Definition) Reference() DefinitionReference {
	return DefinitionReference{ID: d.ID, Name: d.Name}
}

// Build is a queued build. Status only changes through an explicit update.
type Build struct {
	ID           int                  `json:"id" yaml:"id"`
	BuildNumber  string               `json:"buildNumber" yaml:"buildNumber"`
	Status       string               `json:"status" yaml:"status"`
	Result       string               `json:"result,omitempty" yaml:"result,omitempty"`
	QueueTime    time.Time            `json:"queueTime" yaml:"queueTime"`
	FinishTime   *time.Time           `json:"finishTime,omitempty" yaml:"finishTime,omitempty"`
	SourceBranch string               `json:"sourceBranch,omitempty" yaml:"sourceBranch,omitempty"`
	Parameters   string               `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestedBy  IdentityRef          `json:"requestedBy" yaml:"requestedBy"`
	Definition   DefinitionReference  `json:"definition" yaml:"definition"`
	Project      TeamProjectReference `json:"project" yaml:"project"`
	URL          string               `json:"url,omitempty" yaml:"-"`
}

// WorkItem is a work item. Rev starts at 1 and grows by one per update.
type WorkItem struct {
	ID     int            `json:"id" yaml:"id"`
	Rev    int            `json:"rev" yaml:"rev"`
	Fields map[string]any `json:"fields" yaml:"fields"`
	URL    string         `json:"url,omitempty" yaml:"-"`
}

// TaskDefinition is one uploaded version of a build task. Several records
// may share an ID.
type TaskDefinition struct {
	ID                 string         `json:"id" yaml:"id"`
	Name               string         `json:"name" yaml:"name"`
	FriendlyName       string         `json:"friendlyName" yaml:"friendlyName"`
	Description        string         `json:"description" yaml:"description"`
	Category           string         `json:"category,omitempty" yaml:"category,omitempty"`
	Author             string         `json:"author,omitempty" yaml:"author,omitempty"`
	Visibility         []string       `json:"visibility" yaml:"visibility"`
	Version            semver.Version `json:"version" yaml:"version"`
	InstanceNameFormat string         `json:"instanceNameFormat,omitempty" yaml:"instanceNameFormat,omitempty"`
	ServerOwned        bool           `json:"serverOwned" yaml:"serverOwned"`
}

// TaskUploadResponse acknowledges a task archive upload.
type TaskUploadResponse struct {
	ID         string          `json:"id"`
	Size       int             `json:"size"`
	SHA256     string          `json:"sha256"`
	Registered bool            `json:"registered"`
	Task       *TaskDefinition `json:"task,omitempty"`
}

// ConnectionData describes the authenticated session.
type ConnectionData struct {
	AuthenticatedUser   ConnectionIdentity  `json:"authenticatedUser"`
	AuthorizedUser      ConnectionIdentity  `json:"authorizedUser"`
	InstanceID          string              `json:"instanceId"`
	DeploymentID        string              `json:"deploymentId"`
	DeploymentType      string              `json:"deploymentType"`
	LocationServiceData LocationServiceData `json:"locationServiceData"`
}

// ConnectionIdentity is the identity form used by connection data.
type ConnectionIdentity struct {
	ID                  string `json:"id"`
	ProviderDisplayName string `json:"providerDisplayName"`
	IsActive            bool   `json:"isActive"`
}

// LocationServiceData points the client at the service root.
type LocationServiceData struct {
	ServiceOwner                string          `json:"serviceOwner"`
	DefaultAccessMappingMoniker string          `json:"defaultAccessMappingMoniker"`
	AccessMappings              []AccessMapping `json:"accessMappings"`
}

// AccessMapping maps a moniker to a public URL.
type AccessMapping struct {
	DisplayName string `json:"displayName"`
	Moniker     string `json:"moniker"`
	AccessPoint string `json:"accessPoint"`
}

// ResourceLocation describes one REST resource, as returned by OPTIONS
// requests against an area.
type ResourceLocation struct {
	ID              string `json:"id"`
	Area            string `json:"area"`
	ResourceName    string `json:"resourceName"`
	RouteTemplate   string `json:"routeTemplate"`
	ResourceVersion int    `json:"resourceVersion"`
	MinVersion      string `json:"minVersion"`
	MaxVersion      string `json:"maxVersion"`
	ReleasedVersion string `json:"releasedVersion"`
}

// JSONPatchOperation is one operation of a JSON patch document, as sent for
// work item creation and update.
type JSONPatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}
