package config

import (
	"net"
	"strconv"
	"time"
)

// Defaults.
const (
	DefaultHost          = "localhost"
	DefaultPort          = 8080
	DefaultLauncherPort  = 8084
	DefaultCollection    = "DefaultCollection"
	DefaultMaxBodySize   = 10 * 1024 * 1024
	DefaultMaxLogEntries = 1000

	// MaxBodySizeLimit caps MaxBodySize.
	MaxBodySizeLimit = 100 * 1024 * 1024
)

// ServerConfiguration defines the runtime settings of a server.
type ServerConfiguration struct {
	// Host is the interface to bind.
	Host string `json:"host" yaml:"host"`
	// Port is the TCP port to bind (0 = ephemeral)
	Port int `json:"port" yaml:"port"`
	// AuthRequired rejects /_apis requests that carry no Authorization header
	AuthRequired bool `json:"authRequired" yaml:"authRequired"`
	// Collection is the first path segment of collection URLs
	Collection string `json:"collection" yaml:"collection"`
	// ReadTimeout is the HTTP read timeout in seconds (0 = none)
	ReadTimeout int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// WriteTimeout is the HTTP write timeout in seconds (0 = none)
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// MaxBodySize is the maximum request body size in bytes
	MaxBodySize int64 `json:"maxBodySize,omitempty" yaml:"maxBodySize,omitempty"`
	// MaxLogEntries is the request history capacity
	MaxLogEntries int `json:"maxLogEntries,omitempty" yaml:"maxLogEntries,omitempty"`
	// FixturesFile seeds the store instead of the built-in fixtures
	FixturesFile string `json:"fixturesFile,omitempty" yaml:"fixturesFile,omitempty"`
	// Log configures operational logging
	Log LogConfig `json:"log" yaml:"log"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// File receives a JSON copy of the log when set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultServerConfiguration returns a ServerConfiguration with defaults for
// an embedded server.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		Host:          DefaultHost,
		Port:          DefaultPort,
		AuthRequired:  true,
		Collection:    DefaultCollection,
		MaxBodySize:   DefaultMaxBodySize,
		MaxLogEntries: DefaultMaxLogEntries,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultLauncherConfiguration is DefaultServerConfiguration with the
// standalone launcher's port.
func DefaultLauncherConfiguration() *ServerConfiguration {
	cfg := DefaultServerConfiguration()
	cfg.Port = DefaultLauncherPort
	return cfg
}

// Address returns host:port.
func (s *ServerConfiguration) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (s *ServerConfiguration) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (s *ServerConfiguration) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// Clone returns a copy of s.
func (s *ServerConfiguration) Clone() *ServerConfiguration {
	c := *s
	return &c
}
