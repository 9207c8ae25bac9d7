package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

func TestListDefinitions_SeededScenario(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	defs, err := s.ListDefinitions(SampleProject, SampleDefinitionName)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, SampleDefinitionID, defs[0].ID)
	assert.Equal(t, SampleDefinitionName, defs[0].Name)
}

func TestListDefinitions_Filters(t *testing.T) {
	t.Parallel()

	s, err := New(Fixtures{
		Definitions: []types.Definition{
			{ID: 3, Name: "nightly", Project: types.TeamProjectReference{Name: "Alpha"}},
			{ID: 1, Name: "CI", Project: types.TeamProjectReference{Name: "Alpha"}},
			{ID: 2, Name: "ci", Project: types.TeamProjectReference{Name: "Beta"}},
		},
	})
	require.NoError(t, err)

	names := func(defs []*types.Definition) []int {
		out := make([]int, len(defs))
		for i, d := range defs {
			out[i] = d.ID
		}
		return out
	}

	tests := []struct {
		name    string
		project string
		filter  string
		want    []int
	}{
		{"everything sorted by id", "", "", []int{1, 2, 3}},
		{"name ignores case", "", "ci", []int{1, 2}},
		{"name is exact", "", "c", []int{}},
		{"project by name", "beta", "", []int{2}},
		{"project and name", "Alpha", "CI", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := s.ListDefinitions(tt.project, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestGetDefinition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	project, err := s.GetProject(SampleProject)
	require.NoError(t, err)

	d, err := s.GetDefinition(SampleDefinitionID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, SampleDefinitionName, d.Name)
	assert.Equal(t, "build", d.Type)

	_, err = s.GetDefinition(2, "")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindDefinition, nf.Kind)

	_, err = s.GetDefinition(SampleDefinitionID, "Missing")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindProject, nf.Kind)
}
