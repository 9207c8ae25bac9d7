package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	stdtesting "testing"
	"time"

	"github.com/getmockd/tfxmock/pkg/api/types"
	"github.com/getmockd/tfxmock/pkg/config"
	"github.com/getmockd/tfxmock/pkg/store"
)

func do(t *stdtesting.T, m *MockServer, method, url, body string, auth bool) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth("alice", "token")
	}
	resp, err := m.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestNewServer_EphemeralPort(t *stdtesting.T) {
	m := NewServer(t)

	if !strings.HasPrefix(m.URL(), "http://127.0.0.1:") {
		t.Fatalf("expected loopback URL, got %s", m.URL())
	}
	if m.CollectionURL() != m.URL()+"/DefaultCollection" {
		t.Errorf("unexpected collection URL %s", m.CollectionURL())
	}
	if !m.Server().IsRunning() {
		t.Fatal("server is not running")
	}

	resp := do(t, m, http.MethodGet, m.URL()+"/__mock/health", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestNewServer_IndependentInstances(t *stdtesting.T) {
	a := NewServer(t)
	b := NewServer(t)

	if a.URL() == b.URL() {
		t.Fatalf("servers share URL %s", a.URL())
	}

	resp := do(t, a, http.MethodPost, a.ProjectURL(store.SampleProject)+"/_apis/build/builds", `{"definition":{"id":1}}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if n := a.Store().Counts().Builds; n != 1 {
		t.Errorf("expected 1 build on a, got %d", n)
	}
	if n := b.Store().Counts().Builds; n != 0 {
		t.Errorf("expected no builds on b, got %d", n)
	}
}

func TestMockServer_RequestAssertions(t *stdtesting.T) {
	m := NewServer(t)

	resp := do(t, m, http.MethodPost, m.ProjectURL(store.SampleProject)+"/_apis/build/builds?api-version=7.1", `{"definition":{"id":1}}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	do(t, m, http.MethodPatch, m.CollectionURL()+"/_apis/wit/workItems/1", `[{"op":"add","path":"/fields/System.Title","value":"x"}]`, true)
	do(t, m, http.MethodPatch, m.CollectionURL()+"/_apis/wit/workItems/1", `{"System.State":"Active"}`, true)

	m.AssertCalled(t, http.MethodPost, "/_apis/build/builds")
	m.AssertCalledTimes(t, http.MethodPost, "/_apis/build/builds", 1)
	m.AssertCalledTimes(t, http.MethodPatch, "/_apis/wit/workitems/{id}", 2)
	m.AssertNotCalled(t, http.MethodGet, "/_apis/build/builds")

	reqs := m.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	queued := reqs[2]
	queued.AssertMethod(t, http.MethodPost)
	queued.AssertPath(t, "/_apis/build/builds")
	queued.AssertStatus(t, http.StatusOK)
	queued.AssertQueryParam(t, "API-Version", "7.1")
	queued.AssertJSONBody(t, map[string]any{"definition": map[string]any{"id": 1}})
	queued.AssertJSONField(t, "definition.id", float64(1))
	queued.AssertBodyContains(t, `"definition"`)
	if queued.Project != store.SampleProject {
		t.Errorf("expected project %s, got %q", store.SampleProject, queued.Project)
	}
	if queued.User != "alice" {
		t.Errorf("expected user alice, got %q", queued.User)
	}
	reqs[1].AssertJSONField(t, "$[0].path", "/fields/System.Title")
	reqs[0].AssertJSONField(t, "$['System.State']", "Active")
	if reqs[0].JSONField("missing.field") != nil {
		t.Error("expected nil for a missing JSON field")
	}
}

func TestMockServer_AuthRequired(t *stdtesting.T) {
	strict := NewServer(t)
	resp := do(t, strict, http.MethodGet, strict.CollectionURL()+"/_apis/projects", "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}

	open := NewServer(t, WithAuthRequired(false))
	resp = do(t, open, http.MethodGet, open.CollectionURL()+"/_apis/projects", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestMockServer_CustomFixtures(t *stdtesting.T) {
	b := NewFixtures().
		Project("Payments").
		Definition(7, "Payments CI").
		WorkItem(3, "Bug", "Broken", map[string]any{"Custom.Severity": "2"}).
		Task("deploy-task", "Deploy", "2.1.0")
	if err := b.Err(); err != nil {
		t.Fatalf("builder error: %v", err)
	}

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewServer(t,
		WithFixtures(b.Build()),
		WithCollection("Main"),
		WithClock(func() time.Time { return fixed }),
		WithConfig(func(c *config.ServerConfiguration) { c.MaxLogEntries = 5 }),
	)

	resp := do(t, m, http.MethodGet, m.ProjectURL("Payments")+"/_apis/build/definitions", "", true)
	var defs types.ListResponse[types.Definition]
	if err := json.NewDecoder(resp.Body).Decode(&defs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if defs.Count != 1 || defs.Value[0].ID != 7 {
		t.Fatalf("unexpected definitions %+v", defs)
	}

	resp = do(t, m, http.MethodPost, m.ProjectURL("Payments")+"/_apis/build/builds", `{"definition":{"id":7}}`, true)
	var build types.Build
	if err := json.NewDecoder(resp.Body).Decode(&build); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if build.BuildNumber != "20260102.1" {
		t.Errorf("expected build number 20260102.1, got %s", build.BuildNumber)
	}

	if _, err := m.Store().GetWorkItem(3); err != nil {
		t.Errorf("seeded work item missing: %v", err)
	}
	if got := m.Store().ListTaskDefinitions(store.TaskFilter{ID: "deploy-task"}); len(got) != 1 {
		t.Errorf("expected 1 seeded task, got %d", len(got))
	}
}

func TestMockServer_Reset(t *stdtesting.T) {
	m := NewServer(t)

	do(t, m, http.MethodPost, m.ProjectURL(store.SampleProject)+"/_apis/build/builds", `{"definition":{"id":1}}`, true)
	if len(m.Requests()) != 1 {
		t.Fatalf("expected 1 request, got %d", len(m.Requests()))
	}

	m.Reset()

	if n := m.Store().Counts().Builds; n != 0 {
		t.Errorf("expected builds to be cleared, got %d", n)
	}
	if len(m.Requests()) != 0 {
		t.Errorf("expected history to be cleared, got %d", len(m.Requests()))
	}
}

func TestMockServer_StopIsIdempotent(t *stdtesting.T) {
	m := NewServer(t)
	url := m.URL()

	m.Stop()
	m.Stop()

	if m.Server().IsRunning() {
		t.Fatal("server still running after Stop")
	}
	if _, err := http.Get(url + "/__mock/health"); err == nil {
		t.Error("expected request to a stopped server to fail")
	}
}

func TestFixtureBuilder_Errors(t *stdtesting.T) {
	b := NewFixtures().Task("t", "T", "one.two").Definition(0, "zero")
	if b.Err() == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(b.Err().Error(), "Task") {
		t.Errorf("expected the first error to win, got %v", b.Err())
	}
}

func TestFixtureBuilder_DefaultFixtures(t *stdtesting.T) {
	f := DefaultFixtures().Definition(2, "Second").Build()
	if len(f.Definitions) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(f.Definitions))
	}
	if f.Definitions[1].Project.Name != store.SampleProject {
		t.Errorf("expected definition in %s, got %s", store.SampleProject, f.Definitions[1].Project.Name)
	}
}

func TestMatchesPath(t *stdtesting.T) {
	tests := []struct {
		actual   string
		expected string
		want     bool
	}{
		{"/_apis/build/builds", "/_apis/build/builds", true},
		{"/_apis/build/builds/", "/_apis/build/builds", true},
		{"/_apis/wit/workItems/12", "/_apis/wit/workitems/{id}", true},
		{"/_apis/wit/workitems", "/_apis/wit/workitems/{id}", false},
		{"/_apis/build/builds", "/_apis/build/definitions", false},
		{"/_apis/build/builds/7", "/_apis/build/**", true},
		{"/_apis/Build/Definitions", "/_apis/build/*", true},
		{"/_apis/build/builds/7", "/_apis/build/*", false},
		{"/_apis/wit/workitems/1", "/_apis/build/**", false},
	}
	for _, tt := range tests {
		if got := matchesPath(tt.actual, tt.expected); got != tt.want {
			t.Errorf("matchesPath(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
		}
	}
}
