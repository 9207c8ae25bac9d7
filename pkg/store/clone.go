package store

import (
	"encoding/json"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

func cloneBuild(b *types.Build) *types.Build {
	out := *b
	if b.FinishTime != nil {
		t := *b.FinishTime
		out.FinishTime = &t
	}
	return &out
}

func cloneWorkItem(w *types.WorkItem) *types.WorkItem {
	out := *w
	out.Fields = cloneFields(w.Fields)
	return &out
}

func cloneTask(t *types.TaskDefinition) *types.TaskDefinition {
	out := *t
	out.Visibility = append([]string{}, t.Visibility...)
	return &out
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container types produced by JSON and YAML
// decoding. Other values are immutable and returned as is.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case json.RawMessage:
		return append(json.RawMessage(nil), val...)
	default:
		return v
	}
}
