package testing

import (
	"fmt"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/semver"
	"github.com/getmockd/tfxmock/pkg/store"
)

// FixtureBuilder assembles seed data using a fluent API. Definitions are
// added to the project named last (store.SampleProject before any).
type FixtureBuilder struct {
	fixtures store.Fixtures
	project  string
	err      error // First error encountered during building
}

// NewFixtures starts from empty seed data.
func NewFixtures() *FixtureBuilder {
	return &FixtureBuilder{project: store.SampleProject}
}

// DefaultFixtures starts from the built-in seed data.
func DefaultFixtures() *FixtureBuilder {
	return &FixtureBuilder{fixtures: store.DefaultFixtures(), project: store.SampleProject}
}

// setError records the first error encountered during building.
func (b *FixtureBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *FixtureBuilder) Err() error {
	return b.err
}

// Project adds a project and makes it the target of later definitions.
func (b *FixtureBuilder) Project(name string) *FixtureBuilder {
	b.fixtures.Projects = append(b.fixtures.Projects, types.TeamProjectReference{Name: name})
	b.project = name
	return b
}

// Definition adds a build definition to the current project.
func (b *FixtureBuilder) Definition(id int, name string) *FixtureBuilder {
	if id <= 0 {
		b.setError(fmt.Errorf("Definition: invalid id %d", id))
		return b
	}
	b.fixtures.Definitions = append(b.fixtures.Definitions, types.Definition{
		ID:      id,
		Name:    name,
		Project: types.TeamProjectReference{Name: b.project},
	})
	return b
}

// WorkItem adds a work item of type typ at revision 1. Extra fields are
// merged over the title, type and state.
func (b *FixtureBuilder) WorkItem(id int, typ, title string, extra map[string]any) *FixtureBuilder {
	if id <= 0 {
		b.setError(fmt.Errorf("WorkItem: invalid id %d", id))
		return b
	}
	fields := map[string]any{
		store.FieldWorkItemType: typ,
		store.FieldTitle:        title,
		store.FieldState:        "New",
		store.FieldTeamProject:  b.project,
	}
	for k, v := range extra {
		fields[k] = v
	}
	b.fixtures.WorkItems = append(b.fixtures.WorkItems, types.WorkItem{ID: id, Rev: 1, Fields: fields})
	return b
}

// Task adds one uploaded version of a task. version is "major.minor.patch".
func (b *FixtureBuilder) Task(id, name, version string) *FixtureBuilder {
	v, err := semver.Parse(version)
	if err != nil {
		b.setError(fmt.Errorf("Task: %w", err))
		return b
	}
	b.fixtures.Tasks = append(b.fixtures.Tasks, types.TaskDefinition{
		ID:           id,
		Name:         name,
		FriendlyName: name,
		Visibility:   []string{"Build", "Release"},
		Version:      v,
	})
	return b
}

// Build returns the assembled seed data. Check Err first when any input
// may be invalid.
func (b *FixtureBuilder) Build() store.Fixtures {
	return b.fixtures
}
