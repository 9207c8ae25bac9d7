package requestlog

import (
	"time"
	"unicode/utf8"
)

// MaxBodyLength is the number of body bytes kept on an Entry.
const MaxBodyLength = 10 * 1024

// Entry is one handled request.
type Entry struct {
	// ID is assigned by the store when empty.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// ActivityID is the value of the ActivityId response header.
	ActivityID string `json:"activityId,omitempty"`

	Method string `json:"method"`

	// Path is the request path with the collection/project scope removed.
	Path string `json:"path"`

	// RawPath is the path as received.
	RawPath string `json:"rawPath,omitempty"`

	Query      string `json:"query,omitempty"`
	Collection string `json:"collection,omitempty"`
	Project    string `json:"project,omitempty"`
	User       string `json:"user,omitempty"`
	RemoteAddr string `json:"remoteAddr,omitempty"`

	// BodyKind is empty, json or binary.
	BodyKind string `json:"bodyKind"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	// Body is the JSON body text, truncated to MaxBodyLength. Binary bodies
	// are not kept.
	Body string `json:"body,omitempty"`

	Status     int    `json:"status"`
	DurationMs int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// TruncateBody shortens body to at most MaxBodyLength bytes without
// splitting a UTF-8 sequence.
func TruncateBody(body []byte) string {
	if len(body) <= MaxBodyLength {
		return string(body)
	}
	cut := MaxBodyLength
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
