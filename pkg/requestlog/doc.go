// Package requestlog captures the requests a tfxmock server has handled so
// tests can assert on what the client actually sent.
//
// It is distinct from operational logging, which uses log/slog.
//
// # Usage
//
//	log := requestlog.NewInMemoryStore(1000)
//	log.Log(&requestlog.Entry{Method: "GET", Path: "/_apis/build/builds", Status: 200})
//
//	queued := log.List(&requestlog.Filter{Method: "POST", Path: "/_apis/build/builds"})
//
// This is a leaf package with no internal dependencies.
package requestlog
