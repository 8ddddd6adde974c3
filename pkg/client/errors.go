package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidID is the cause reported for set ids that cannot form a path
// segment.
var ErrInvalidID = errors.New("invalid id")

// APIError is returned by direct operations when the proxy rejected the
// request or could not be reached.
type APIError struct {
	// Status is the HTTP status code (0 if no response was received).
	Status int

	// Message is the server's error message or the operation's fallback.
	Message string

	// Cause is the underlying transport or decode error, if any.
	Cause error
}

// Error implements the error interface. It returns the message alone, which
// is what UI code renders inline.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Detail returns a diagnostic description including status and cause.
func (e *APIError) Detail() string {
	switch {
	case e.Status > 0 && e.Cause != nil:
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.Status, e.Cause)
	case e.Status > 0:
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	default:
		return e.Message
	}
}

// errorMessage extracts the error field from a failed response body. Bodies
// that are not JSON objects, or that carry no usable message, yield fallback.
func errorMessage(body []byte, fallback string) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fallback
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return fallback
}
