// Package httputil holds the JSON response envelopes shared by all handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/sentinel"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates domain and sentinel errors into a JSON envelope.
// Descriptions of internal errors are never exposed.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	desc := ""
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		desc = de.Message
	} else {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			code, desc = dErrors.CodeNotFound, "resource not found"
		case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrInvalidState):
			code, desc = dErrors.CodeConflict, "resource is in a conflicting state"
		case errors.Is(err, sentinel.ErrExpired):
			code, desc = dErrors.CodeUnauthorized, "session expired"
		case errors.Is(err, sentinel.ErrUnavailable):
			code, desc = dErrors.CodeUnavailable, "service temporarily unavailable"
		}
	}
	if code == dErrors.CodeInternal {
		desc = ""
	}
	WriteJSON(w, StatusFor(code), ErrorResponse{Error: string(code), ErrorDescription: desc})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
