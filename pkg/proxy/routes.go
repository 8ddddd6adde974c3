package proxy

import (
	"net/http"
	"net/url"
	"strings"
)

// BodyMode says what a route does with the inbound body.
type BodyMode int

const (
	// BodyNone ignores the inbound body.
	BodyNone BodyMode = iota
	// BodyRequired decodes the body; an empty or malformed body is a 500.
	BodyRequired
	// BodyOptional decodes the body when one is sent.
	BodyOptional
)

// Route describes one same-origin endpoint and the backend call behind it.
type Route struct {
	// Name labels logs, metrics and spans.
	Name string

	// Method and Path form the inbound ServeMux pattern. The backend path is
	// Path with any {id} wildcard filled in.
	Method string
	Path   string

	Body BodyMode

	// RequireID appends the body's "id" to the backend path and rejects the
	// request with 400 when it or the body is missing.
	RequireID bool

	// DropBody decodes the body (for the id) without forwarding it.
	DropBody bool

	// Acknowledge answers {"success": true} instead of the backend body.
	Acknowledge bool

	// NoStore marks responses as uncacheable.
	NoStore bool

	// Fallback is relayed when a failed backend answer has no message.
	Fallback string
}

// Pattern returns the ServeMux pattern, e.g. "GET /api/flashcards/sets".
func (rt Route) Pattern() string {
	return rt.Method + " " + rt.Path
}

// backendPath resolves the backend path for r. Wildcard values and body ids
// are escaped, and ids that would not stay a single path segment once the
// URL is cleaned are rejected.
func (rt Route) backendPath(r *http.Request, id string) (string, error) {
	path := rt.Path
	if strings.Contains(path, "{id}") {
		value := r.PathValue("id")
		if !validSegment(value) {
			return "", errInvalidID
		}
		path = strings.Replace(path, "{id}", url.PathEscape(value), 1)
	}
	if rt.RequireID {
		if !validSegment(id) {
			return "", errMissingID
		}
		path += "/" + url.PathEscape(id)
	}
	return path, nil
}

// validSegment reports whether id can be used as one path segment.
// PathEscape encodes "/" but keeps "." and "..", which JoinPath would then
// resolve against the parent path.
func validSegment(id string) bool {
	return id != "" && id != "." && id != ".."
}

// Routes is the proxy's endpoint table.
var Routes = []Route{
	{
		Name:     "flashcards.create",
		Method:   http.MethodPost,
		Path:     "/api/flashcards",
		Body:     BodyRequired,
		Fallback: "Failed to create flashcard",
	},
	{
		Name:      "flashcards.update",
		Method:    http.MethodPut,
		Path:      "/api/flashcards",
		Body:      BodyRequired,
		RequireID: true,
		Fallback:  "Failed to update flashcard",
	},
	{
		Name:        "flashcards.delete",
		Method:      http.MethodDelete,
		Path:        "/api/flashcards",
		Body:        BodyRequired,
		RequireID:   true,
		DropBody:    true,
		Acknowledge: true,
		Fallback:    "Failed to delete flashcard",
	},
	{
		Name:     "sets.list",
		Method:   http.MethodGet,
		Path:     "/api/flashcards/sets",
		NoStore:  true,
		Fallback: "Failed to fetch flashcard sets",
	},
	{
		Name:     "flashcards.generate",
		Method:   http.MethodPost,
		Path:     "/api/flashcards/generate",
		Body:     BodyRequired,
		Fallback: "Failed to generate flashcards",
	},
	{
		Name:     "sets.create",
		Method:   http.MethodPost,
		Path:     "/api/flashcards/sets/create",
		Body:     BodyRequired,
		Fallback: "Failed to create flashcard set",
	},
	{
		Name:     "sets.delete",
		Method:   http.MethodDelete,
		Path:     "/api/flashcards/sets/{id}",
		Fallback: "Failed to delete flashcard set",
	},
	{
		Name:     "sets.cards",
		Method:   http.MethodGet,
		Path:     "/api/flashcards/sets/{id}/cards",
		Fallback: "Failed to fetch flashcards",
	},
	{
		Name:     "flashcards.review",
		Method:   http.MethodPost,
		Path:     "/api/flashcards/review",
		Body:     BodyRequired,
		Fallback: "Failed to record review",
	},
	{
		Name:     "suggest.list",
		Method:   http.MethodGet,
		Path:     "/api/flashcards/suggest",
		Fallback: "Failed to fetch suggestions",
	},
	{
		Name:     "suggest.generate",
		Method:   http.MethodPost,
		Path:     "/api/flashcards/suggest",
		Body:     BodyOptional,
		Fallback: "Failed to generate suggestions",
	},
	{
		Name:     "chat",
		Method:   http.MethodPost,
		Path:     "/api/flashcards/chat",
		Body:     BodyRequired,
		Fallback: "Chat request failed",
	},
}

// LookupRoute returns the route called name.
func LookupRoute(name string) (Route, bool) {
	for _, rt := range Routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return Route{}, false
}
