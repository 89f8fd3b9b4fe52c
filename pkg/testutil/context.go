package testutil

import (
	"net/http"

	"civreg/pkg/requestcontext"
)

// WithClientIP sets the client address the metadata middleware would record.
func WithClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, req.UserAgent()))
}
