package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/tfxmock/pkg/logging"
)

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks if the ServerConfiguration is valid.
func (s *ServerConfiguration) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return &ValidationError{Field: "host", Message: "host must not be empty"}
	}
	if s.Port < 0 || s.Port >= 65536 {
		return &ValidationError{Field: "port", Message: "port must be between 0 and 65535"}
	}

	if strings.TrimSpace(s.Collection) == "" {
		return &ValidationError{Field: "collection", Message: "collection must not be empty"}
	}
	if strings.ContainsAny(s.Collection, "/?#") {
		return &ValidationError{Field: "collection", Message: "collection must be a single path segment"}
	}

	if s.MaxBodySize < 0 {
		return &ValidationError{Field: "maxBodySize", Message: "maxBodySize must be >= 0"}
	}
	if s.MaxBodySize > MaxBodySizeLimit {
		return &ValidationError{
			Field:   "maxBodySize",
			Message: fmt.Sprintf("maxBodySize must be <= %d (100MB)", MaxBodySizeLimit),
		}
	}
	if s.MaxLogEntries < 0 {
		return &ValidationError{Field: "maxLogEntries", Message: "maxLogEntries must be >= 0"}
	}

	if s.ReadTimeout < 0 {
		return &ValidationError{Field: "readTimeout", Message: "readTimeout must be >= 0"}
	}
	if s.WriteTimeout < 0 {
		return &ValidationError{Field: "writeTimeout", Message: "writeTimeout must be >= 0"}
	}

	if _, err := logging.LookupLevel(s.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: err.Error()}
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown log format %q (want text or json)", s.Log.Format)}
	}

	return nil
}
