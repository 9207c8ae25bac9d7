package store

import (
	"strconv"
	"strings"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

// Well-known work item field names.
const (
	FieldID           = "System.Id"
	FieldRev          = "System.Rev"
	FieldWorkItemType = "System.WorkItemType"
	FieldTitle        = "System.Title"
	FieldState        = "System.State"
	FieldTeamProject  = "System.TeamProject"
)

// FieldPatch is a merge applied to a work item's fields. Set entries are
// written, Remove entries deleted; fields named by neither are untouched.
type FieldPatch struct {
	Set    map[string]any
	Remove []string
}

// IsEmpty reports whether the patch changes nothing.
func (p FieldPatch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Remove) == 0
}

// GetWorkItem returns work item id.
func (s *Store) GetWorkItem(id int) (*types.WorkItem, error) {
	s.workItemMu.RLock()
	defer s.workItemMu.RUnlock()

	w, ok := s.workItems[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindWorkItem, ID: strconv.Itoa(id)}
	}
	return cloneWorkItem(w), nil
}

// GetWorkItems returns the work items with the given ids, in the order
// requested. Any missing id fails the whole batch.
func (s *Store) GetWorkItems(ids []int) ([]*types.WorkItem, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "ids", Message: "at least one work item id is required"}
	}

	s.workItemMu.RLock()
	defer s.workItemMu.RUnlock()

	out := make([]*types.WorkItem, 0, len(ids))
	for _, id := range ids {
		w, ok := s.workItems[id]
		if !ok {
			return nil, &NotFoundError{Kind: KindWorkItem, ID: strconv.Itoa(id)}
		}
		out = append(out, cloneWorkItem(w))
	}
	return out, nil
}

// CreateWorkItem stores a new work item of type typ at revision 1. A leading
// "$" on typ, as sent in request paths, is dropped. System.Title is required
// and System.State defaults to New.
func (s *Store) CreateWorkItem(typ string, fields map[string]any) (*types.WorkItem, error) {
	typ = strings.TrimPrefix(typ, "$")
	if typ == "" {
		return nil, &ValidationError{Field: "type", Message: "a work item type is required"}
	}
	if title, _ := fields[FieldTitle].(string); strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: FieldTitle, Message: "a title is required"}
	}

	s.workItemMu.Lock()
	defer s.workItemMu.Unlock()

	w := &types.WorkItem{
		ID:     s.workItemIDs.Next(),
		Rev:    1,
		Fields: cloneFields(fields),
	}
	w.Fields[FieldWorkItemType] = typ
	if _, ok := w.Fields[FieldState]; !ok {
		w.Fields[FieldState] = "New"
	}
	w.Fields[FieldID] = w.ID
	w.Fields[FieldRev] = w.Rev
	s.workItems[w.ID] = w
	return cloneWorkItem(w), nil
}

// UpdateWorkItem merges patch into work item id and bumps its revision by
// exactly one, even when the patch is empty.
func (s *Store) UpdateWorkItem(id int, patch FieldPatch) (*types.WorkItem, error) {
	for k := range patch.Set {
		if isReadOnlyField(k) {
			return nil, &ValidationError{Field: k, Message: "field is read-only"}
		}
	}
	for _, k := range patch.Remove {
		if isReadOnlyField(k) {
			return nil, &ValidationError{Field: k, Message: "field is read-only"}
		}
	}

	s.workItemMu.Lock()
	defer s.workItemMu.Unlock()

	w, ok := s.workItems[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindWorkItem, ID: strconv.Itoa(id)}
	}

	if w.Fields == nil {
		w.Fields = make(map[string]any, len(patch.Set))
	}
	for k, v := range patch.Set {
		w.Fields[k] = cloneValue(v)
	}
	for _, k := range patch.Remove {
		delete(w.Fields, k)
	}
	w.Rev++
	w.Fields[FieldRev] = w.Rev
	return cloneWorkItem(w), nil
}

func isReadOnlyField(name string) bool {
	return name == FieldID || name == FieldRev
}
