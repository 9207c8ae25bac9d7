package store

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/getmockd/tfxmock/internal/id"
	"github.com/getmockd/tfxmock/pkg/api/types"
)

// DefaultIdentityName is the user recorded when a request carries no
// identifiable credentials.
const DefaultIdentityName = "Test User"

// DefaultIdentity returns the identity used when none is supplied.
func DefaultIdentity() types.IdentityRef {
	return IdentityFor("")
}

// IdentityFor derives a stable identity from a user name. The same name
// always yields the same id.
func IdentityFor(user string) types.IdentityRef {
	display := user
	if display == "" {
		display = DefaultIdentityName
	}
	unique := display
	if user == "" {
		unique = "testuser@tfxmock.local"
	}
	return types.IdentityRef{
		ID:          id.NameUUID("identity", unique),
		DisplayName: display,
		UniqueName:  unique,
	}
}

// BuildRequest is the input of QueueBuild.
type BuildRequest struct {
	DefinitionID int
	// Project scopes the definition lookup; empty means any project.
	Project      string
	SourceBranch string
	Parameters   string
	RequestedBy  types.IdentityRef
}

// BuildFilter narrows ListBuilds.
type BuildFilter struct {
	Project       string
	DefinitionIDs []int
	// Status keeps builds with this status; empty or "all" keeps everything.
	Status string
	// Top limits the number of results; 0 means no limit.
	Top int
}

// BuildPatch is the input of UpdateBuild. Nil fields are left unchanged.
type BuildPatch struct {
	Status *string
	Result *string
}

var validStatuses = []string{
	types.BuildStatusNone,
	types.BuildStatusNotStarted,
	types.BuildStatusInProgress,
	types.BuildStatusCompleted,
	types.BuildStatusCancelling,
	types.BuildStatusPostponed,
}

var validResults = []string{
	types.BuildResultNone,
	types.BuildResultSucceeded,
	types.BuildResultPartiallySucceeded,
	types.BuildResultFailed,
	types.BuildResultCanceled,
}

// QueueBuild creates a build of req.DefinitionID with a fresh id, the
// current time as queue time and status notStarted.
func (s *Store) QueueBuild(req BuildRequest) (*types.Build, error) {
	if req.DefinitionID <= 0 {
		return nil, &ValidationError{Field: "definition.id", Message: "a build definition id is required"}
	}

	def, err := s.GetDefinition(req.DefinitionID, req.Project)
	if err != nil {
		return nil, err
	}

	requestedBy := req.RequestedBy
	if requestedBy.ID == "" {
		requestedBy = DefaultIdentity()
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	now := s.clock()
	b := &types.Build{
		ID:           s.buildIDs.Next(),
		BuildNumber:  s.nextBuildNumber(def.ID, now.Format("20060102")),
		Status:       types.BuildStatusNotStarted,
		QueueTime:    now,
		SourceBranch: req.SourceBranch,
		Parameters:   req.Parameters,
		RequestedBy:  requestedBy,
		Definition:   def.Reference(),
		Project:      def.Project,
	}
	s.builds[b.ID] = b
	return cloneBuild(b), nil
}

// nextBuildNumber returns day.N where N counts the definition's builds that
// already carry that day prefix. Callers hold buildMu.
func (s *Store) nextBuildNumber(definitionID int, day string) string {
	n := 1
	for _, b := range s.builds {
		if b.Definition.ID == definitionID && len(b.BuildNumber) > len(day) && b.BuildNumber[:len(day)] == day {
			n++
		}
	}
	return fmt.Sprintf("%s.%d", day, n)
}

// GetBuild returns build id. When project is set the build must belong to it.
func (s *Store) GetBuild(id int, project string) (*types.Build, error) {
	if err := s.checkProject(project); err != nil {
		return nil, err
	}

	s.buildMu.RLock()
	defer s.buildMu.RUnlock()

	b, ok := s.builds[id]
	if !ok || !matchesProject(b.Project, project) {
		return nil, &NotFoundError{Kind: KindBuild, ID: strconv.Itoa(id), Project: project}
	}
	return cloneBuild(b), nil
}

// ListBuilds returns matching builds, newest (highest id) first.
func (s *Store) ListBuilds(filter BuildFilter) ([]*types.Build, error) {
	if err := s.checkProject(filter.Project); err != nil {
		return nil, err
	}
	if filter.Status != "" && filter.Status != types.BuildStatusAll && !slices.Contains(validStatuses, filter.Status) {
		return nil, &ValidationError{Field: "statusFilter", Message: fmt.Sprintf("unknown build status %q", filter.Status)}
	}

	s.buildMu.RLock()
	defer s.buildMu.RUnlock()

	out := make([]*types.Build, 0, len(s.builds))
	for _, b := range s.builds {
		if !matchesProject(b.Project, filter.Project) {
			continue
		}
		if len(filter.DefinitionIDs) > 0 && !slices.Contains(filter.DefinitionIDs, b.Definition.ID) {
			continue
		}
		if filter.Status != "" && filter.Status != types.BuildStatusAll && b.Status != filter.Status {
			continue
		}
		out = append(out, cloneBuild(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if filter.Top > 0 && len(out) > filter.Top {
		out = out[:filter.Top]
	}
	return out, nil
}

// UpdateBuild applies patch to build id. Moving to completed stamps the
// finish time.
func (s *Store) UpdateBuild(id int, project string, patch BuildPatch) (*types.Build, error) {
	if patch.Status != nil && !slices.Contains(validStatuses, *patch.Status) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown build status %q", *patch.Status)}
	}
	if patch.Result != nil && !slices.Contains(validResults, *patch.Result) {
		return nil, &ValidationError{Field: "result", Message: fmt.Sprintf("unknown build result %q", *patch.Result)}
	}
	if err := s.checkProject(project); err != nil {
		return nil, err
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	b, ok := s.builds[id]
	if !ok || !matchesProject(b.Project, project) {
		return nil, &NotFoundError{Kind: KindBuild, ID: strconv.Itoa(id), Project: project}
	}

	if patch.Status != nil {
		b.Status = *patch.Status
		if b.Status == types.BuildStatusCompleted && b.FinishTime == nil {
			now := s.clock()
			b.FinishTime = &now
		}
	}
	if patch.Result != nil {
		b.Result = *patch.Result
	}
	return cloneBuild(b), nil
}
