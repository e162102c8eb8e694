package client

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the server.
type HTTPError struct {
	StatusCode int
	Message    string
	// FromServer is set when Message came from the JSON "error" field.
	FromServer bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// ServerMessage returns the server-provided error text carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.FromServer {
		return httpErr.Message, true
	}
	return "", false
}

// IsHTTPError reports whether err came from a completed HTTP exchange
// (as opposed to a transport failure).
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}
