package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/tfxmock/pkg/semver"
)

const fixturesYAML = `
projects:
  - name: Fabrikam
definitions:
  - id: 10
    name: fabrikam-ci
    project:
      name: Fabrikam
workItems:
  - id: 5
    fields:
      System.Title: Seeded
      System.Tags: [one, two]
tasks:
  - id: 11111111-2222-3333-4444-555555555555
    name: Deploy
    version:
      major: 0
      minor: 3
      patch: 1
`

func TestParseFixtures(t *testing.T) {
	t.Parallel()

	f, err := ParseFixtures([]byte(fixturesYAML))
	require.NoError(t, err)
	require.Len(t, f.Definitions, 1)
	assert.Equal(t, "fabrikam-ci", f.Definitions[0].Name)
	require.Len(t, f.Tasks, 1)
	assert.Equal(t, semver.New(0, 3, 1), f.Tasks[0].Version)

	s, err := New(f)
	require.NoError(t, err)

	p, err := s.GetProject("fabrikam")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "wellFormed", p.State)

	d, err := s.GetDefinition(10, "Fabrikam")
	require.NoError(t, err)
	assert.Equal(t, p.ID, d.Project.ID)

	w, err := s.GetWorkItem(5)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Rev)
	assert.Equal(t, []any{"one", "two"}, w.Fields["System.Tags"])

	next, err := s.CreateWorkItem("Bug", map[string]any{FieldTitle: "after seed"})
	require.NoError(t, err)
	assert.Equal(t, 6, next.ID)
}

func TestParseFixtures_Empty(t *testing.T) {
	t.Parallel()

	f, err := ParseFixtures([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, EmptyFixtures(), f)
}

func TestParseFixtures_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParseFixtures([]byte("builds: []\nreleases: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse fixtures")
}

func TestParseFixtures_JSON(t *testing.T) {
	t.Parallel()

	f, err := ParseFixtures([]byte(`{"projects":[{"name":"Json"}],"definitions":[{"id":2,"name":"json-ci"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Json", f.Projects[0].Name)
	assert.Equal(t, 2, f.Definitions[0].ID)
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixturesYAML), 0o600))

	f, err := LoadFixtures(path)
	require.NoError(t, err)
	assert.Len(t, f.Projects, 1)

	_, err = LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixtures file")
}
