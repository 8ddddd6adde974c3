package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"studysharper/flashgate/pkg/proxy/types"
)

// WriteJSONResponse writes data as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes an error body with the given status.
func WriteErrorResponse(w http.ResponseWriter, status int, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, status, errResp)
}

// WriteRawJSON relays backend bytes unchanged.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if len(body) == 0 {
		return nil
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// backendMessage picks the message relayed for a failed backend call:
// "detail" when it is a non-empty string, else "error", else fallback.
// Bodies that are not JSON objects count as empty.
func backendMessage(body []byte, fallback string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	for _, key := range []string{"detail", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
