package http

import "net/http"

// Common Content-Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-Id"
)

// isJSON reports whether the declared content type is exactly application/json.
// Parameters such as charset disqualify the body from structured decoding.
func isJSON(h http.Header) bool {
	return h.Get(HeaderContentType) == ContentTypeJSON
}
