// Package httputil provides shared HTTP helpers so every tfxmock response
// carries the same content type and error body.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

// ContentTypeJSON is the content type of every JSON response.
const ContentTypeJSON = "application/json; charset=utf-8"

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteList writes items in the {count, value} envelope.
func WriteList[T any](w http.ResponseWriter, items []T) {
	WriteJSON(w, http.StatusOK, types.NewList(items))
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError converts err to the backend error body and writes it with the
// status code that err carries (500 when it carries none). It returns the
// status written.
func WriteError(w http.ResponseWriter, err error) int {
	resp := types.ErrorFromError(err)
	WriteJSON(w, resp.StatusCode, resp)
	return resp.StatusCode
}
