package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		path        string
		want        BodyKind
	}{
		{"get is empty", "GET", "application/json", "/_apis/build/builds", BodyEmpty},
		{"delete is empty", "DELETE", "application/json", "/_apis/distributedtask/tasks/t1", BodyEmpty},
		{"options is empty", "OPTIONS", "", "/_apis/build", BodyEmpty},
		{"head is empty", "HEAD", "", "/_apis/build", BodyEmpty},
		{"lowercase get is empty", "get", "", "/_apis/build", BodyEmpty},
		{"post json", "POST", "application/json", "/_apis/build/builds", BodyJSON},
		{"post without content type", "POST", "", "/_apis/build/builds", BodyJSON},
		{"patch json-patch", "PATCH", "application/json-patch+json", "/_apis/wit/workitems/1", BodyJSON},
		{"octet-stream", "POST", "application/octet-stream", "/_apis/anything", BodyBinary},
		{"zip", "POST", "application/zip", "/_apis/anything", BodyBinary},
		{"zip with params", "PATCH", "application/zip; charset=binary", "/_apis/anything", BodyBinary},
		{"uppercase media type", "POST", "Application/Octet-Stream", "/x", BodyBinary},
		{"put task upload", "PUT", "application/json", "/_apis/distributedtask/tasks/t1", BodyBinary},
		{"put task upload without content type", "PUT", "", "/DefaultCollection/_apis/distributedtask/tasks/t1", BodyBinary},
		{"put tasks collection is json", "PUT", "", "/_apis/distributedtask/tasks", BodyJSON},
		{"put elsewhere is json", "PUT", "application/json", "/_apis/build/builds/1", BodyJSON},
		{"post to task path is json", "POST", "application/json", "/_apis/distributedtask/tasks/t1", BodyJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.method, tt.contentType, tt.path))
		})
	}
}

func TestBodyKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty", BodyEmpty.String())
	assert.Equal(t, "json", BodyJSON.String())
	assert.Equal(t, "binary", BodyBinary.String())
	assert.Equal(t, "unknown", BodyKind(42).String())
}
