package handlers

import (
	"net/http"

	"studysharper/flashgate/pkg/proxy"
)

// RequestObserver records answered requests.
type RequestObserver interface {
	ObserveRequest(route, method string, code int)
}

// FlashcardHandler serves the flashcard proxy routes.
type FlashcardHandler struct {
	forwarder *proxy.Forwarder
	observer  RequestObserver
	routes    []proxy.Route
}

// NewFlashcardHandler creates a handler for proxy.Routes. observer may be nil.
func NewFlashcardHandler(fwd *proxy.Forwarder, observer RequestObserver) *FlashcardHandler {
	return &FlashcardHandler{
		forwarder: fwd,
		observer:  observer,
		routes:    proxy.Routes,
	}
}

// Register mounts every route on mux.
func (h *FlashcardHandler) Register(mux *http.ServeMux) {
	for _, route := range h.routes {
		mux.Handle(route.Pattern(), h.Route(route))
	}
}

// Route returns the handler for a single route.
func (h *FlashcardHandler) Route(route proxy.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := h.forwarder.Forward(w, r, route)
		if h.observer != nil {
			h.observer.ObserveRequest(route.Name, r.Method, status)
		}
	})
}
