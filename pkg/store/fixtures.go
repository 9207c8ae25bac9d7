package store

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/tfxmock/internal/id"
	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/semver"
)

// Fixtures is the seed data a Store is built from and restored to on Reset.
type Fixtures struct {
	Projects    []types.TeamProjectReference `json:"projects" yaml:"projects"`
	Definitions []types.Definition           `json:"definitions" yaml:"definitions"`
	Builds      []types.Build                `json:"builds" yaml:"builds"`
	WorkItems   []types.WorkItem             `json:"workItems" yaml:"workItems"`
	Tasks       []types.TaskDefinition       `json:"tasks" yaml:"tasks"`
}

// Sample fixture values, exported so tests can refer to them.
const (
	SampleProject        = "TestProject"
	SampleDefinitionID   = 1
	SampleDefinitionName = "Sample Build Definition"
	SampleWorkItemID     = 1
	SampleTaskID         = "6f1e3a7c-9a2b-4c5d-8e9f-0a1b2c3d4e5f"
	SampleTaskName       = "SampleTask"
)

// DefaultFixtures returns the built-in seed data: one project, one build
// definition, one work item and two uploaded versions of one task.
func DefaultFixtures() Fixtures {
	project := types.TeamProjectReference{
		ID:    id.NameUUID("project", SampleProject),
		Name:  SampleProject,
		State: "wellFormed",
	}
	return Fixtures{
		Projects: []types.TeamProjectReference{project},
		Definitions: []types.Definition{{
			ID:          SampleDefinitionID,
			Name:        SampleDefinitionName,
			Path:        `\`,
			Revision:    1,
			Type:        "build",
			QueueStatus: "enabled",
			Project:     project,
		}},
		WorkItems: []types.WorkItem{{
			ID:  SampleWorkItemID,
			Rev: 1,
			Fields: map[string]any{
				"System.WorkItemType": "Bug",
				"System.Title":        "Sample work item",
				"System.State":        "New",
				"System.TeamProject":  SampleProject,
			},
		}},
		Tasks: []types.TaskDefinition{
			sampleTask(semver.New(1, 0, 0)),
			sampleTask(semver.New(1, 2, 0)),
		},
	}
}

func sampleTask(v semver.Version) types.TaskDefinition {
	return types.TaskDefinition{
		ID:           SampleTaskID,
		Name:         SampleTaskName,
		FriendlyName: "Sample Task",
		Description:  "A sample build task",
		Category:     "Utility",
		Author:       "tfxmock",
		Visibility:   []string{"Build", "Release"},
		Version:      v,
	}
}

// EmptyFixtures returns seed data with nothing in it.
func EmptyFixtures() Fixtures {
	return Fixtures{}
}

// LoadFixtures reads seed data from a YAML (or JSON) file.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML (or JSON) seed data. Unknown fields are rejected.
func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return f, nil
}

// normalize fills in derived fields and checks identity uniqueness per kind.
func (f Fixtures) normalize(now time.Time) (Fixtures, error) {
	out := Fixtures{}

	projects := make(map[string]types.TeamProjectReference)
	addProject := func(p types.TeamProjectReference) types.TeamProjectReference {
		if existing, ok := lookupProject(projects, p); ok {
			return existing
		}
		if p.ID == "" {
			p.ID = id.NameUUID("project", p.Name)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.State == "" {
			p.State = "wellFormed"
		}
		projects[p.ID] = p
		out.Projects = append(out.Projects, p)
		return p
	}

	for i, p := range f.Projects {
		if p.ID == "" && p.Name == "" {
			return Fixtures{}, fmt.Errorf("project at index %d has neither id nor name", i)
		}
		if _, ok := lookupProject(projects, p); ok {
			name := p.Name
			if name == "" {
				name = p.ID
			}
			return Fixtures{}, fmt.Errorf("duplicate project %q in seed data at index %d", name, i)
		}
		addProject(p)
	}

	defIDs := make(map[int]bool)
	for i, d := range f.Definitions {
		if d.ID <= 0 {
			return Fixtures{}, fmt.Errorf("definition at index %d has invalid id %d", i, d.ID)
		}
		if defIDs[d.ID] {
			return Fixtures{}, fmt.Errorf("duplicate definition id %d in seed data at index %d", d.ID, i)
		}
		defIDs[d.ID] = true
		if d.Project.ID == "" && d.Project.Name == "" {
			d.Project.Name = SampleProject
		}
		d.Project = addProject(d.Project)
		if d.Type == "" {
			d.Type = "build"
		}
		if d.QueueStatus == "" {
			d.QueueStatus = "enabled"
		}
		if d.Path == "" {
			d.Path = `\`
		}
		if d.Revision == 0 {
			d.Revision = 1
		}
		out.Definitions = append(out.Definitions, d)
	}

	buildIDs := make(map[int]bool)
	for i, b := range f.Builds {
		if b.ID <= 0 {
			return Fixtures{}, fmt.Errorf("build at index %d has invalid id %d", i, b.ID)
		}
		if buildIDs[b.ID] {
			return Fixtures{}, fmt.Errorf("duplicate build id %d in seed data at index %d", b.ID, i)
		}
		buildIDs[b.ID] = true
		if b.Status == "" {
			b.Status = types.BuildStatusNotStarted
		}
		if b.QueueTime.IsZero() {
			b.QueueTime = now
		}
		if b.Project.ID == "" && b.Project.Name == "" {
			b.Project.Name = SampleProject
		}
		b.Project = addProject(b.Project)
		if b.RequestedBy.ID == "" {
			b.RequestedBy = DefaultIdentity()
		}
		out.Builds = append(out.Builds, b)
	}

	wiIDs := make(map[int]bool)
	for i, w := range f.WorkItems {
		if w.ID <= 0 {
			return Fixtures{}, fmt.Errorf("work item at index %d has invalid id %d", i, w.ID)
		}
		if wiIDs[w.ID] {
			return Fixtures{}, fmt.Errorf("duplicate work item id %d in seed data at index %d", w.ID, i)
		}
		wiIDs[w.ID] = true
		if w.Rev < 1 {
			w.Rev = 1
		}
		w.Fields = cloneFields(w.Fields)
		w.Fields[FieldID] = w.ID
		w.Fields[FieldRev] = w.Rev
		out.WorkItems = append(out.WorkItems, w)
	}

	for i, t := range f.Tasks {
		if t.ID == "" {
			return Fixtures{}, fmt.Errorf("task definition at index %d has no id", i)
		}
		if t.Visibility == nil {
			t.Visibility = []string{}
		}
		out.Tasks = append(out.Tasks, t)
	}

	return out, nil
}

func lookupProject(projects map[string]types.TeamProjectReference, p types.TeamProjectReference) (types.TeamProjectReference, bool) {
	for _, existing := range projects {
		if p.ID != "" && equalFold(existing.ID, p.ID) {
			return existing, true
		}
		if p.Name != "" && equalFold(existing.Name, p.Name) {
			return existing, true
		}
	}
	return types.TeamProjectReference{}, false
}
