package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvHost         = "TFXMOCK_HOST"
	EnvPort         = "TFXMOCK_PORT"
	EnvAuthRequired = "TFXMOCK_AUTH_REQUIRED"
	EnvCollection   = "TFXMOCK_COLLECTION"
	EnvFixtures     = "TFXMOCK_FIXTURES"
	EnvLogLevel     = "TFXMOCK_LOG_LEVEL"
	EnvLogFormat    = "TFXMOCK_LOG_FORMAT"
)

// ApplyEnv overrides cfg with the TFXMOCK_* environment variables that are
// set. Malformed numeric or boolean values are reported and leave the field
// unchanged.
func ApplyEnv(cfg *ServerConfiguration) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *ServerConfiguration, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: EnvPort, Message: fmt.Sprintf("invalid port %q", v)}
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvAuthRequired); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ValidationError{Field: EnvAuthRequired, Message: fmt.Sprintf("invalid boolean %q", v)}
		}
		cfg.AuthRequired = b
	}
	if v, ok := lookup(EnvCollection); ok && v != "" {
		cfg.Collection = v
	}
	if v, ok := lookup(EnvFixtures); ok && v != "" {
		cfg.FixturesFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Log.Format = v
	}
	return nil
}
