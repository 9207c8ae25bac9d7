package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBodySize is used when Parse is given a non-positive limit (10MB).
const DefaultMaxBodySize = 10 << 20

// Query is the parsed query string. Repeated keys keep every value.
type Query = url.Values

// Body is a decoded request body. Exactly one of JSON or Raw is meaningful,
// depending on Kind.
type Body struct {
	Kind BodyKind
	// JSON holds the decoded value for BodyJSON: map[string]any, []any or a scalar.
	JSON any
	// Raw holds the bytes for BodyBinary, and the original text for BodyJSON.
	Raw []byte
}

// Size returns the number of body bytes read from the wire.
func (b Body) Size() int {
	return len(b.Raw)
}

// Object returns the body as a JSON object, or nil if it is not one.
func (b Body) Object() map[string]any {
	m, _ := b.JSON.(map[string]any)
	return m
}

// Decode unmarshals the JSON body text into v.
func (b Body) Decode(v any) error {
	if b.Kind != BodyJSON {
		return errors.New("request body is not JSON")
	}
	raw := b.Raw
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	return json.Unmarshal(raw, v)
}

// Request is a decoded inbound request.
type Request struct {
	Method string
	Path   string
	Query  Query
	Header http.Header
	Body   Body
}

// Parse decodes r. The body is read at most once, in full, and closed
// before Parse returns. On error no partial body is exposed.
func Parse(r *http.Request, maxBody int64) (*Request, error) {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	req := &Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header,
	}

	kind := Classify(r.Method, r.Header.Get("Content-Type"), r.URL.Path)
	req.Body.Kind = kind
	if kind == BodyEmpty {
		if r.Body != nil {
			_ = r.Body.Close()
		}
		return req, nil
	}

	data, err := readBody(r.Body, maxBody)
	if err != nil {
		var tooLarge *PayloadTooLargeError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &ParseError{Kind: InternalParseFailure, Path: req.Path, Err: err}
	}
	req.Body.Raw = data

	if kind == BodyBinary {
		return req, nil
	}

	value, err := decodeJSON(data)
	if err != nil {
		return nil, &ParseError{Kind: BadRequest, Path: req.Path, Err: err}
	}
	req.Body.JSON = value
	return req, nil
}

// readBody buffers the whole stream and closes it.
func readBody(body io.ReadCloser, maxBody int64) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBody {
		return nil, &PayloadTooLargeError{MaxSize: maxBody}
	}
	return data, nil
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing content such as `{}{}`.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

// First returns the first value for key, matching key case-insensitively
// the way the backend treats query parameters.
func (r *Request) First(key string) string {
	if v := r.Query.Get(key); v != "" {
		return v
	}
	for k, vs := range r.Query {
		if len(vs) > 0 && strings.EqualFold(k, key) {
			return vs[0]
		}
	}
	return ""
}
