package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure reported by the backend: a non-2xx response,
// usually carrying an {"error": "..."} body.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether the backend rejected the session. A 403
// (for example a non-admin asking for invites) is not a rejected session.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError means the request never produced a usable response
// (connection refused, DNS failure, cancelled context, garbled body).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err (or any error in its chain) is a
// backend-reported Error.
func IsAPIError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

// IsTransportError reports whether err (or any error in its chain) is a
// TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// errorResponse is the error body shape used by every endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
