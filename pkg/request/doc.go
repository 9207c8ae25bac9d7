// Package request decodes inbound HTTP requests into method, path, query
// and a classified body.
//
// Body handling is a two-step, tagged decision. Classify is a pure function
// of method, content type and path that picks one of three kinds:
//
//   - Empty: GET, HEAD, DELETE and OPTIONS requests; the body is never read
//   - Binary: octet-stream or zip payloads, and PUT uploads under a /tasks/
//     path; the bytes are delivered unparsed
//   - JSON: everything else; an empty body decodes to an empty object
//
// Parse then performs a single buffered read of the body (when the kind
// requires one) and returns either a complete Request or exactly one error.
package request
