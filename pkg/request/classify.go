package request

import (
	"mime"
	"net/http"
	"strings"
)

// BodyKind tags how a request body is decoded.
type BodyKind int

const (
	// BodyEmpty means no body is read from the wire.
	BodyEmpty BodyKind = iota
	// BodyJSON means the body is text decoded as JSON.
	BodyJSON
	// BodyBinary means the body is delivered as raw bytes.
	BodyBinary
)

// String returns the lowercase name of the kind.
func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyJSON:
		return "json"
	case BodyBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear as strings in JSON output.
func (k BodyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var binaryMediaTypes = map[string]bool{
	"application/octet-stream":     true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"application/x-zip":            true,
}

// Classify picks the body kind for a request. It does no I/O.
func Classify(method, contentType, path string) BodyKind {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return BodyEmpty
	}

	if isBinaryContentType(contentType) {
		return BodyBinary
	}
	if strings.EqualFold(method, http.MethodPut) && isTaskUploadPath(path) {
		return BodyBinary
	}
	return BodyJSON
}

func isBinaryContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Fall back to the raw prefix for headers mime cannot parse.
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return binaryMediaTypes[strings.ToLower(mediaType)]
}

// isTaskUploadPath reports whether path has a "tasks" segment followed by
// at least one more segment.
func isTaskUploadPath(path string) bool {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if strings.EqualFold(seg, "tasks") && i+1 < len(segments) && segments[i+1] != "" {
			return true
		}
	}
	return false
}
