package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfiguration(t *testing.T) {
	t.Parallel()

	cfg := DefaultServerConfiguration()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, "DefaultCollection", cfg.Collection)
	assert.EqualValues(t, 10*1024*1024, cfg.MaxBodySize)
	assert.Equal(t, 1000, cfg.MaxLogEntries)
	assert.Equal(t, "localhost:8080", cfg.Address())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8084, DefaultLauncherConfiguration().Port)
}

func TestTimeouts(t *testing.T) {
	t.Parallel()

	cfg := DefaultServerConfiguration()
	assert.Zero(t, cfg.ReadTimeoutDuration())
	cfg.ReadTimeout = 3
	cfg.WriteTimeout = 7
	assert.Equal(t, 3*time.Second, cfg.ReadTimeoutDuration())
	assert.Equal(t, 7*time.Second, cfg.WriteTimeoutDuration())
}

func TestClone(t *testing.T) {
	t.Parallel()

	cfg := DefaultServerConfiguration()
	c := cfg.Clone()
	c.Port = 1
	assert.Equal(t, 8080, cfg.Port)
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
host: 0.0.0.0
port: 9000
authRequired: false
collection: Fabrikam
maxLogEntries: 50
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, "Fabrikam", cfg.Collection)
	assert.Equal(t, 50, cfg.MaxLogEntries)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Untouched keys keep their defaults.
	assert.EqualValues(t, DefaultMaxBodySize, cfg.MaxBodySize)
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`{"port": 0, "collection": "Json"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Port)
	assert.Equal(t, "Json", cfg.Collection)
	assert.Equal(t, DefaultHost, cfg.Host)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfiguration(), cfg)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("port: [nope\n"))
	require.ErrorIs(t, err, ErrInvalidYAML)

	_, err = Parse([]byte("httpPort: 4280\n"))
	require.ErrorIs(t, err, ErrInvalidYAML)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TFXMOCK_TEST_COLLECTION", "FromEnv")

	cfg, err := Parse([]byte("collection: ${TFXMOCK_TEST_COLLECTION}\nhost: ${TFXMOCK_TEST_UNSET:-127.0.0.1}\n"))
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Collection)
	assert.Equal(t, "127.0.0.1", cfg.Host)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tfxmock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8181\nfixturesFile: fixtures.yaml\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, "fixtures.yaml", cfg.FixturesFile)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvHost:         "0.0.0.0",
		EnvPort:         "9100",
		EnvAuthRequired: "false",
		EnvCollection:   "Env",
		EnvFixtures:     "/tmp/f.yaml",
		EnvLogLevel:     "warn",
		EnvLogFormat:    "json",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultServerConfiguration()
	require.NoError(t, applyEnv(cfg, lookup))
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9100, cfg.Port)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, "Env", cfg.Collection)
	assert.Equal(t, "/tmp/f.yaml", cfg.FixturesFile)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{EnvPort, "eighty"},
		{EnvAuthRequired, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultServerConfiguration()
			err := applyEnv(cfg, func(k string) (string, bool) {
				if k == tt.key {
					return tt.value, true
				}
				return "", false
			})
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.key, ve.Field)
			assert.Equal(t, DefaultServerConfiguration(), cfg)
		})
	}
}

func TestApplyEnv_Process(t *testing.T) {
	t.Setenv(EnvPort, "8099")

	cfg := DefaultServerConfiguration()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, 8099, cfg.Port)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ServerConfiguration)
		field  string
	}{
		{"empty host", func(c *ServerConfiguration) { c.Host = " " }, "host"},
		{"negative port", func(c *ServerConfiguration) { c.Port = -1 }, "port"},
		{"port too large", func(c *ServerConfiguration) { c.Port = 65536 }, "port"},
		{"empty collection", func(c *ServerConfiguration) { c.Collection = "" }, "collection"},
		{"collection with slash", func(c *ServerConfiguration) { c.Collection = "a/b" }, "collection"},
		{"negative body size", func(c *ServerConfiguration) { c.MaxBodySize = -1 }, "maxBodySize"},
		{"huge body size", func(c *ServerConfiguration) { c.MaxBodySize = MaxBodySizeLimit + 1 }, "maxBodySize"},
		{"negative log entries", func(c *ServerConfiguration) { c.MaxLogEntries = -1 }, "maxLogEntries"},
		{"negative read timeout", func(c *ServerConfiguration) { c.ReadTimeout = -1 }, "readTimeout"},
		{"negative write timeout", func(c *ServerConfiguration) { c.WriteTimeout = -1 }, "writeTimeout"},
		{"bad log level", func(c *ServerConfiguration) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *ServerConfiguration) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultServerConfiguration()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	t.Run("ephemeral port is valid", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultServerConfiguration()
		cfg.Port = 0
		assert.NoError(t, cfg.Validate())
	})
}
