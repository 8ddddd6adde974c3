package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"studysharper/flashgate/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes bounds inbound bodies when no limit is configured.
	DefaultMaxBodyBytes = 1 << 20

	// AuthorizationHeader carries the browser's bearer token.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader correlates proxy and backend logs.
	RequestIDHeader = "X-Request-ID"

	// ContentTypeJSON is the only content type the proxy speaks.
	ContentTypeJSON = "application/json"
)

// Body is a decoded inbound JSON body.
type Body struct {
	value any
}

// ReadBody decodes the request body as JSON, keeping numbers exact. An empty
// body yields a nil Body. Bodies over limit are rejected with 413; malformed
// JSON is a plain error and ends up as a 500.
func ReadBody(r *http.Request, limit int64) (*Body, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: types.MessageBodyTooLarge,
			Reason:  ReasonBodyTooLarge,
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON body: trailing data")
	}
	return &Body{value: v}, nil
}

// Marshal re-serializes the body for the backend.
func (b *Body) Marshal() ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b.value)
}

// ID returns the body's "id" field as a path segment. Absent, null, false,
// zero and empty ids report false.
func (b *Body) ID() (string, bool) {
	if b == nil {
		return "", false
	}
	obj, ok := b.value.(map[string]any)
	if !ok {
		return "", false
	}

	switch id := obj["id"].(type) {
	case string:
		return id, id != ""
	case json.Number:
		s := id.String()
		if f, err := id.Float64(); err == nil && f == 0 {
			return "", false
		}
		return s, true
	case bool:
		if id {
			return "true", true
		}
		return "", false
	default:
		return "", false
	}
}

// ExtractRequestID returns the caller-supplied X-Request-ID, if any.
func ExtractRequestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(RequestIDHeader))
}
