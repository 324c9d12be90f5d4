// Package api writes the JSON bodies shared by every HTTP handler.
package api

import (
	"net/http"
	"strconv"
)

// Error codes returned in the envelope.
const (
	CodeInvalidJSON    = "INVALID_JSON"
	CodeMissingTitleID = "MISSING_TITLE_ID"
	CodeNotFound       = "NOT_FOUND"
	CodeRateLimited    = "RATE_LIMITED"
	CodeNotReady       = "NOT_READY"
	CodeInternal       = "INTERNAL"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message, requestID string, details map[string]any) {
	WriteJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message, Details: details, RequestID: requestID}})
}

func BadRequest(w http.ResponseWriter, code, message, requestID string, details map[string]any) {
	WriteError(w, http.StatusBadRequest, code, message, requestID, details)
}

func NotFound(w http.ResponseWriter, message, requestID string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message, requestID, nil)
}

// RateLimited sets Retry-After when retryAfterSeconds is positive.
func RateLimited(w http.ResponseWriter, message, requestID string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	WriteError(w, http.StatusTooManyRequests, CodeRateLimited, message, requestID, nil)
}

func Unavailable(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusServiceUnavailable, code, message, requestID, nil)
}

func Internal(w http.ResponseWriter, requestID string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", requestID, nil)
}
