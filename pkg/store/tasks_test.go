package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/semver"
)

func task(id string, v semver.Version, desc string) types.TaskDefinition {
	return types.TaskDefinition{ID: id, Name: id, Description: desc, Version: v, Visibility: []string{"Build"}}
}

func TestListTaskDefinitions_NewestScenario(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	all := s.ListTaskDefinitions(TaskFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, semver.New(1, 0, 0), all[0].Version)
	assert.Equal(t, semver.New(1, 2, 0), all[1].Version)

	newest := s.ListTaskDefinitions(TaskFilter{OnlyNewest: true})
	require.Len(t, newest, 1)
	assert.Equal(t, SampleTaskID, newest[0].ID)
	assert.Equal(t, semver.New(1, 2, 0), newest[0].Version)
}

func TestNewest(t *testing.T) {
	t.Parallel()

	a1 := task("a", semver.New(1, 0, 0), "a1")
	a3 := task("a", semver.New(3, 0, 0), "a3")
	a2 := task("A", semver.New(2, 9, 9), "a2")
	b1 := task("b", semver.New(0, 1, 0), "b1")
	b1again := task("b", semver.New(0, 1, 0), "b1 again")
	c := task("c", semver.New(0, 0, 1), "c")

	tests := []struct {
		name    string
		records []types.TaskDefinition
		want    []string
	}{
		{"empty", nil, []string{}},
		{"single", []types.TaskDefinition{c}, []string{"c"}},
		{"highest wins regardless of order", []types.TaskDefinition{a1, a3, a2}, []string{"a3"}},
		{"ids match ignoring case", []types.TaskDefinition{a2, a1}, []string{"a2"}},
		{"tie keeps last inserted", []types.TaskDefinition{b1, b1again}, []string{"b1 again"}},
		{"first seen order", []types.TaskDefinition{c, a1, b1, a3}, []string{"c", "a3", "b1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := make([]*types.TaskDefinition, len(tt.records))
			for i := range tt.records {
				in[i] = &tt.records[i]
			}
			got := Newest(in)
			desc := make([]string, len(got))
			for i, g := range got {
				desc[i] = g.Description
			}
			assert.Equal(t, tt.want, desc)
		})
	}
}

func TestNewest_OnePerIDAndMaximal(t *testing.T) {
	t.Parallel()

	var records []*types.TaskDefinition
	for major := 0; major < 4; major++ {
		for _, id := range []string{"x", "y", "z"} {
			for patch := 3; patch >= 0; patch-- {
				r := task(id, semver.New(major, 0, patch), "")
				records = append(records, &r)
			}
		}
	}

	got := Newest(records)
	require.Len(t, got, 3)
	for _, g := range got {
		for _, r := range records {
			if r.ID == g.ID {
				assert.False(t, g.Version.Less(r.Version), "%s %s is not maximal", g.ID, g.Version)
			}
		}
	}
}

func TestListTaskDefinitions_Filters(t *testing.T) {
	t.Parallel()

	s, err := New(Fixtures{Tasks: []types.TaskDefinition{
		{ID: "one", Version: semver.New(1, 0, 0), Visibility: []string{"Build"}},
		{ID: "two", Version: semver.New(1, 0, 0), Visibility: []string{"Release"}},
		{ID: "ONE", Version: semver.New(2, 0, 0), Visibility: []string{"build", "Release"}},
	}})
	require.NoError(t, err)

	assert.Len(t, s.ListTaskDefinitions(TaskFilter{ID: "one"}), 2)
	assert.Len(t, s.ListTaskDefinitions(TaskFilter{Visibility: "release"}), 2)
	assert.Len(t, s.ListTaskDefinitions(TaskFilter{Visibility: "Build", OnlyNewest: true}), 1)
	assert.Empty(t, s.ListTaskDefinitions(TaskFilter{ID: "three"}))
}

func TestAddTaskDefinition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	added, err := s.AddTaskDefinition(task(SampleTaskID, semver.New(2, 0, 0), "new major"), false)
	require.NoError(t, err)
	assert.Equal(t, "new major", added.Description)
	assert.Len(t, s.ListTaskDefinitions(TaskFilter{}), 3)

	newest := s.ListTaskDefinitions(TaskFilter{OnlyNewest: true})
	require.Len(t, newest, 1)
	assert.Equal(t, semver.New(2, 0, 0), newest[0].Version)

	_, err = s.AddTaskDefinition(task(SampleTaskID, semver.New(1, 2, 0), "dup"), false)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "version 1.2.0", ce.Detail)

	_, err = s.AddTaskDefinition(task(SampleTaskID, semver.New(1, 2, 0), "replaced"), true)
	require.NoError(t, err)
	all := s.ListTaskDefinitions(TaskFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "replaced", all[1].Description)

	_, err = s.AddTaskDefinition(types.TaskDefinition{ID: " "}, false)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteTaskDefinition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	n, err := s.DeleteTaskDefinition(SampleTaskID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, s.ListTaskDefinitions(TaskFilter{}))

	_, err = s.DeleteTaskDefinition(SampleTaskID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindTaskDefinition, nf.Kind)
}
