package store

import (
	"sort"
	"strconv"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

// GetDefinition returns definition id. When project is set the definition
// must belong to it.
func (s *Store) GetDefinition(id int, project string) (*types.Definition, error) {
	if err := s.checkProject(project); err != nil {
		return nil, err
	}

	s.definitionMu.RLock()
	defer s.definitionMu.RUnlock()

	d, ok := s.definitions[id]
	if !ok || !matchesProject(d.Project, project) {
		return nil, &NotFoundError{Kind: KindDefinition, ID: strconv.Itoa(id), Project: project}
	}
	out := *d
	return &out, nil
}

// ListDefinitions returns the definitions of project (all projects when
// empty), sorted by id. A non-empty name keeps only definitions whose name
// equals it, ignoring case.
func (s *Store) ListDefinitions(project, name string) ([]*types.Definition, error) {
	if err := s.checkProject(project); err != nil {
		return nil, err
	}

	s.definitionMu.RLock()
	defer s.definitionMu.RUnlock()

	out := make([]*types.Definition, 0, len(s.definitions))
	for _, d := range s.definitions {
		if !matchesProject(d.Project, project) {
			continue
		}
		if name != "" && !equalFold(d.Name, name) {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
