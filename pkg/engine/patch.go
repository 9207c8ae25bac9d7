package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/getmockd/tfxmock/pkg/store"
)

// fieldsPointer is the JSON pointer prefix of work item fields.
const fieldsPointer = "/fields/"

// patchOp is one operation of a JSON patch document.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value"`
}

// parseFieldPatch reads a work item update. The body is either a JSON patch
// document or an object; an object is the field map itself or holds one
// under "fields".
func parseFieldPatch(c *call) (store.FieldPatch, error) {
	body := c.req.Body
	switch body.JSON.(type) {
	case []any:
		var ops []patchOp
		if err := body.Decode(&ops); err != nil {
			return store.FieldPatch{}, &store.ValidationError{Message: "invalid patch document: " + err.Error()}
		}
		return fieldPatchFromOps(ops)
	case map[string]any:
		var obj map[string]any
		if err := body.Decode(&obj); err != nil {
			return store.FieldPatch{}, &store.ValidationError{Message: "invalid field object: " + err.Error()}
		}
		if nested, ok := obj["fields"].(map[string]any); ok {
			obj = nested
		}
		return store.FieldPatch{Set: obj}, nil
	default:
		return store.FieldPatch{}, &store.ValidationError{Message: "body must be a JSON patch document or an object"}
	}
}

func fieldPatchFromOps(ops []patchOp) (store.FieldPatch, error) {
	patch := store.FieldPatch{Set: make(map[string]any, len(ops))}
	for i, op := range ops {
		kind := strings.ToLower(op.Op)
		if kind == "test" {
			continue
		}
		field, err := fieldFromPointer(op.Path)
		if err != nil {
			return store.FieldPatch{}, &store.ValidationError{Field: fmt.Sprintf("[%d].path", i), Message: err.Error()}
		}
		switch kind {
		case "add", "replace":
			patch.Set[field] = op.Value
			patch.Remove = slices.DeleteFunc(patch.Remove, func(f string) bool { return f == field })
		case "remove":
			delete(patch.Set, field)
			patch.Remove = append(patch.Remove, field)
		default:
			return store.FieldPatch{}, &store.ValidationError{
				Field:   fmt.Sprintf("[%d].op", i),
				Message: fmt.Sprintf("unsupported operation %q", op.Op),
			}
		}
	}
	return patch, nil
}

// fieldFromPointer extracts the field reference name from a pointer such
// as /fields/System.Title, unescaping ~1 and ~0.
func fieldFromPointer(pointer string) (string, error) {
	if len(pointer) <= len(fieldsPointer) || !strings.EqualFold(pointer[:len(fieldsPointer)], fieldsPointer) {
		return "", fmt.Errorf("path %q does not address a field", pointer)
	}
	name := pointer[len(fieldsPointer):]
	if strings.Contains(name, "/") {
		return "", fmt.Errorf("path %q addresses inside a field", pointer)
	}
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, nil
}
