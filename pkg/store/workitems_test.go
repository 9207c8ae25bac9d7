package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateWorkItem_RevPlusN(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5, 20} {
		s := newTestStore(t)
		before, err := s.GetWorkItem(SampleWorkItemID)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			_, err := s.UpdateWorkItem(SampleWorkItemID, FieldPatch{Set: map[string]any{"Custom.Counter": i}})
			require.NoError(t, err)
		}

		after, err := s.GetWorkItem(SampleWorkItemID)
		require.NoError(t, err)
		assert.Equal(t, before.Rev+n, after.Rev)
		assert.Equal(t, after.Rev, after.Fields[FieldRev])
		assert.Equal(t, n-1, after.Fields["Custom.Counter"])
		assert.Equal(t, before.Fields[FieldTitle], after.Fields[FieldTitle])
		assert.Equal(t, before.Fields[FieldState], after.Fields[FieldState])
	}
}

func TestUpdateWorkItem_MergeAndRemove(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	w, err := s.UpdateWorkItem(SampleWorkItemID, FieldPatch{
		Set:    map[string]any{FieldState: "Active", "Custom.Tags": []any{"a", "b"}},
		Remove: []string{FieldTeamProject},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, w.Rev)
	assert.Equal(t, "Active", w.Fields[FieldState])
	assert.Equal(t, "Sample work item", w.Fields[FieldTitle])
	assert.NotContains(t, w.Fields, FieldTeamProject)
	assert.Equal(t, []any{"a", "b"}, w.Fields["Custom.Tags"])

	empty, err := s.UpdateWorkItem(SampleWorkItemID, FieldPatch{})
	require.NoError(t, err)
	assert.Equal(t, 3, empty.Rev)
}

func TestUpdateWorkItem_Errors(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.UpdateWorkItem(404, FieldPatch{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "work item 404 not found", nf.Error())

	_, err = s.UpdateWorkItem(SampleWorkItemID, FieldPatch{Set: map[string]any{FieldRev: 10}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, FieldRev, ve.Field)

	_, err = s.UpdateWorkItem(SampleWorkItemID, FieldPatch{Remove: []string{FieldID}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, FieldID, ve.Field)

	w, err := s.GetWorkItem(SampleWorkItemID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Rev)
	assert.Contains(t, w.Fields, FieldID)
}

func TestCreateWorkItem(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	w, err := s.CreateWorkItem("$Bug", map[string]any{FieldTitle: "Crash on start"})
	require.NoError(t, err)
	assert.Equal(t, SampleWorkItemID+1, w.ID)
	assert.Equal(t, 1, w.Rev)
	assert.Equal(t, "Bug", w.Fields[FieldWorkItemType])
	assert.Equal(t, "New", w.Fields[FieldState])
	assert.Equal(t, w.ID, w.Fields[FieldID])

	got, err := s.GetWorkItem(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = s.CreateWorkItem("Bug", map[string]any{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, FieldTitle, ve.Field)

	_, err = s.CreateWorkItem("$", map[string]any{FieldTitle: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)
}

func TestGetWorkItems(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	second, err := s.CreateWorkItem("Task", map[string]any{FieldTitle: "second"})
	require.NoError(t, err)

	items, err := s.GetWorkItems([]int{second.ID, SampleWorkItemID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, SampleWorkItemID, items[1].ID)

	_, err = s.GetWorkItems([]int{SampleWorkItemID, 77})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "77", nf.ID)

	_, err = s.GetWorkItems(nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
