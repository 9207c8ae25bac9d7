package testing

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"
)

// RequestLog is a recorded request, for assertions.
type RequestLog struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string
	// Path is the resource path without the collection and project scope
	Path string
	// Project is the project the request was scoped to
	Project string
	// User is the basic auth user name
	User string
	// Status is the response status code
	Status int
	// BodyKind is how the body was decoded: empty, json or binary
	BodyKind string
	// BodySize is the body size in bytes
	BodySize int
	// Body is the JSON body text; binary bodies are not kept
	Body string
	// QueryString is the raw query string
	QueryString string
	// Error is the failure reported to the client, if any
	Error string
}

// AssertJSONBody asserts that the request body matches the expected JSON.
// The expected value can be a string, []byte, or any struct/map that will be JSON encoded.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var expectedJSON any
	var actualJSON any

	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	case []byte:
		if err := json.Unmarshal(v, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	default:
		// Round trip to normalize numbers and key order.
		data, err := json.Marshal(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		if err := json.Unmarshal(data, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	}

	if err := json.Unmarshal([]byte(r.Body), &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertBodyContains asserts that the request body contains the expected substring.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertStatus asserts the response status returned to the client.
func (r *RequestLog) AssertStatus(t testing.TB, expected int) {
	t.Helper()

	if r.Status != expected {
		t.Errorf("response status mismatch\nexpected: %d\nactual: %d (%s)", expected, r.Status, r.Error)
	}
}

// AssertQueryParam asserts that the request had the specified query parameter.
// Keys are matched ignoring case, as the service does.
func (r *RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.queryParam(key)
	if !ok {
		t.Errorf("request does not have query parameter %q", key)
		return
	}

	if actual != expected {
		t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

func (r *RequestLog) queryParam(key string) (string, bool) {
	values, err := url.ParseQuery(r.QueryString)
	if err != nil {
		return "", false
	}
	for k, vs := range values {
		if strings.EqualFold(k, key) && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}

// AssertMethod asserts that the request used the expected HTTP method.
func (r *RequestLog) AssertMethod(t testing.TB, expected string) {
	t.Helper()

	if !strings.EqualFold(r.Method, expected) {
		t.Errorf("request method mismatch\nexpected: %q\nactual: %q", expected, r.Method)
	}
}

// AssertPath asserts that the request path matches.
func (r *RequestLog) AssertPath(t testing.TB, expected string) {
	t.Helper()

	if !matchesPath(r.Path, expected) {
		t.Errorf("request path mismatch\nexpected: %q\nactual: %q", expected, r.Path)
	}
}

// JSONField extracts a value from the request body JSON. field is a
// JSONPath expression such as "$.value[0].id"; a bare "definition.id" is
// read as "$.definition.id". Returns nil if the body is not valid JSON or
// nothing matches.
func (r *RequestLog) JSONField(field string) any {
	var data any
	if err := json.Unmarshal([]byte(r.Body), &data); err != nil {
		return nil
	}

	if !strings.HasPrefix(field, "$") {
		field = "$." + field
	}
	expr, err := jp.ParseString(field)
	if err != nil {
		return nil
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// AssertJSONField asserts that a JSON field in the request body has the expected value.
func (r *RequestLog) AssertJSONField(t testing.TB, field string, expected any) {
	t.Helper()

	actual := r.JSONField(field)
	if actual == nil {
		t.Errorf("JSON field %q not found in request body: %s", field, r.Body)
		return
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			field, expected, expected, actual, actual)
	}
}
