package store

import (
	"slices"
	"strings"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/semver"
)

// TaskFilter narrows ListTaskDefinitions.
type TaskFilter struct {
	// OnlyNewest keeps one record per id: the one with the highest version.
	OnlyNewest bool
	// ID keeps records with this id, ignoring case.
	ID string
	// Visibility keeps records visible in this context (e.g. Build), ignoring case.
	Visibility string
}

// ListTaskDefinitions returns the task history. Without OnlyNewest every
// record is returned in insertion order.
func (s *Store) ListTaskDefinitions(filter TaskFilter) []*types.TaskDefinition {
	s.taskMu.RLock()
	defer s.taskMu.RUnlock()

	matched := make([]*types.TaskDefinition, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.ID != "" && !strings.EqualFold(t.ID, filter.ID) {
			continue
		}
		if filter.Visibility != "" && !slices.ContainsFunc(t.Visibility, func(v string) bool {
			return strings.EqualFold(v, filter.Visibility)
		}) {
			continue
		}
		matched = append(matched, t)
	}

	if filter.OnlyNewest {
		matched = Newest(matched)
	}

	out := make([]*types.TaskDefinition, len(matched))
	for i, t := range matched {
		out[i] = cloneTask(t)
	}
	return out
}

// Newest reduces records to one per id (compared case-insensitively),
// holding the highest version. On identical versions the later record wins.
// Ids keep the order in which they were first seen.
func Newest(records []*types.TaskDefinition) []*types.TaskDefinition {
	index := make(map[string]int, len(records))
	out := make([]*types.TaskDefinition, 0, len(records))
	for _, t := range records {
		key := strings.ToLower(t.ID)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, t)
			continue
		}
		if semver.Compare(t.Version, out[i].Version) >= 0 {
			out[i] = t
		}
	}
	return out
}

// AddTaskDefinition appends def to the history. A record with the same id
// and version is a ConflictError unless overwrite is set, in which case it
// is replaced in place.
func (s *Store) AddTaskDefinition(def types.TaskDefinition, overwrite bool) (*types.TaskDefinition, error) {
	if strings.TrimSpace(def.ID) == "" {
		return nil, &ValidationError{Field: "id", Message: "a task definition id is required"}
	}
	if def.Visibility == nil {
		def.Visibility = []string{}
	}
	rec := cloneTask(&def)

	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	for i, t := range s.tasks {
		if !strings.EqualFold(t.ID, def.ID) || semver.Compare(t.Version, def.Version) != 0 {
			continue
		}
		if !overwrite {
			return nil, &ConflictError{Kind: KindTaskDefinition, ID: def.ID, Detail: "version " + def.Version.String()}
		}
		s.tasks[i] = rec
		return cloneTask(rec), nil
	}

	s.tasks = append(s.tasks, rec)
	return cloneTask(rec), nil
}

// DeleteTaskDefinition removes every record with id and returns how many
// were removed.
func (s *Store) DeleteTaskDefinition(id string) (int, error) {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *types.TaskDefinition) bool {
		return strings.EqualFold(t.ID, id)
	})
	removed := before - len(s.tasks)
	if removed == 0 {
		return 0, &NotFoundError{Kind: KindTaskDefinition, ID: id}
	}
	return removed, nil
}
