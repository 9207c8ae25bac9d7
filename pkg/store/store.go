package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/getmockd/tfxmock/internal/id"
	"github.com/getmockd/tfxmock/pkg/api/types"
)

// Store is the in-memory resource store. The zero value is not usable; use New.
type Store struct {
	seed Fixtures
	now  func() time.Time

	projectMu sync.RWMutex
	projects  []types.TeamProjectReference

	definitionMu sync.RWMutex
	definitions  map[int]*types.Definition

	buildMu  sync.RWMutex
	builds   map[int]*types.Build
	buildIDs id.Sequence

	workItemMu  sync.RWMutex
	workItems   map[int]*types.WorkItem
	workItemIDs id.Sequence

	taskMu sync.RWMutex
	tasks  []*types.TaskDefinition
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, which stamps queue and finish times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store seeded with f. Seed data with duplicate ids within a
// kind is rejected.
func New(f Fixtures, opts ...Option) (*Store, error) {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	seed, err := f.normalize(s.clock())
	if err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	s.seed = seed
	s.load()
	return s, nil
}

// MustNew is like New but panics on invalid fixtures.
func MustNew(f Fixtures, opts ...Option) *Store {
	s, err := New(f, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Reset restores every resource kind to the seed fixtures.
func (s *Store) Reset() {
	s.load()
}

// load replaces all state with copies of the seed. Locks are taken in a
// fixed order.
func (s *Store) load() {
	s.projectMu.Lock()
	defer s.projectMu.Unlock()
	s.definitionMu.Lock()
	defer s.definitionMu.Unlock()
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	s.workItemMu.Lock()
	defer s.workItemMu.Unlock()
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	s.projects = append([]types.TeamProjectReference(nil), s.seed.Projects...)

	s.definitions = make(map[int]*types.Definition, len(s.seed.Definitions))
	for i := range s.seed.Definitions {
		d := s.seed.Definitions[i]
		s.definitions[d.ID] = &d
	}

	s.builds = make(map[int]*types.Build, len(s.seed.Builds))
	s.buildIDs.Reset()
	for i := range s.seed.Builds {
		b := cloneBuild(&s.seed.Builds[i])
		s.builds[b.ID] = b
		s.buildIDs.Observe(b.ID)
	}

	s.workItems = make(map[int]*types.WorkItem, len(s.seed.WorkItems))
	s.workItemIDs.Reset()
	for i := range s.seed.WorkItems {
		w := cloneWorkItem(&s.seed.WorkItems[i])
		s.workItems[w.ID] = w
		s.workItemIDs.Observe(w.ID)
	}

	s.tasks = make([]*types.TaskDefinition, 0, len(s.seed.Tasks))
	for i := range s.seed.Tasks {
		s.tasks = append(s.tasks, cloneTask(&s.seed.Tasks[i]))
	}
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// Counts reports how many records of each kind are stored.
type Counts struct {
	Projects        int `json:"projects"`
	Definitions     int `json:"definitions"`
	Builds          int `json:"builds"`
	WorkItems       int `json:"workItems"`
	TaskDefinitions int `json:"taskDefinitions"`
}

// Counts returns the current record counts.
func (s *Store) Counts() Counts {
	var c Counts

	s.projectMu.RLock()
	c.Projects = len(s.projects)
	s.projectMu.RUnlock()

	s.definitionMu.RLock()
	c.Definitions = len(s.definitions)
	s.definitionMu.RUnlock()

	s.buildMu.RLock()
	c.Builds = len(s.builds)
	s.buildMu.RUnlock()

	s.workItemMu.RLock()
	c.WorkItems = len(s.workItems)
	s.workItemMu.RUnlock()

	s.taskMu.RLock()
	c.TaskDefinitions = len(s.tasks)
	s.taskMu.RUnlock()

	return c
}

// ListProjects returns every project in seed order.
func (s *Store) ListProjects() []types.TeamProjectReference {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	return append([]types.TeamProjectReference(nil), s.projects...)
}

// GetProject looks a project up by name or id, case-insensitively.
func (s *Store) GetProject(nameOrID string) (types.TeamProjectReference, error) {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()

	for _, p := range s.projects {
		if matchesProject(p, nameOrID) {
			return p, nil
		}
	}
	return types.TeamProjectReference{}, &NotFoundError{Kind: KindProject, ID: nameOrID}
}

// checkProject returns a NotFoundError when project is set but unknown.
func (s *Store) checkProject(project string) error {
	if project == "" {
		return nil
	}
	_, err := s.GetProject(project)
	return err
}

// matchesProject reports whether ref is the project named (or identified)
// by project. An empty project matches everything.
func matchesProject(ref types.TeamProjectReference, project string) bool {
	if project == "" {
		return true
	}
	return equalFold(ref.Name, project) || equalFold(ref.ID, project)
}

// equalFold compares names under full Unicode case folding, so "Straße"
// matches "STRASSE".
func equalFold(a, b string) bool {
	if a == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
