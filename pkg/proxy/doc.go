// Package proxy relays the browser's same-origin flashcard requests to the
// StudySharper backend API.
//
// The proxy is stateless. It holds no flashcard data, neither retries nor
// caches, and adds nothing to the backend's answers beyond error shaping.
//
// # Architecture
//
// The package is organized around a route table:
//
//   - Route: one same-origin endpoint, its backend path and body handling
//   - Routes: the table of every endpoint the proxy exposes
//   - Forwarder: performs the backend call for a route and shapes the answer
//   - handlers: mounts Routes on an http.ServeMux (see package handlers)
//   - middleware: request ids, access logs, CORS and panic recovery
//
// # Basic Usage
//
//	fwd, err := proxy.NewForwarder(cfg.Backend.BaseURL,
//	    proxy.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
//	    proxy.WithObserver(collector),
//	    proxy.WithMaxBodyBytes(cfg.Proxy.MaxBodyBytes),
//	)
//	if err != nil {
//	    return err
//	}
//	handlers.NewFlashcardHandler(fwd, collector).Register(mux)
//
// A single route can also be served directly:
//
//	rt, _ := proxy.LookupRoute("sets.list")
//	mux.HandleFunc(rt.Pattern(), func(w http.ResponseWriter, r *http.Request) {
//	    fwd.Forward(w, r, rt)
//	})
//
// # Request Flow
//
//  1. The inbound body, when the route takes one, is decoded as JSON with
//     numbers kept exact. Bodies over the size limit are answered with 413.
//  2. Update and delete of a single card read the "id" field and append it
//     to the backend path as one escaped segment.
//  3. The request is sent to the backend with the caller's Authorization
//     header, X-Request-ID and W3C trace context.
//  4. The backend answer is relayed or reduced to an error body.
//
// Writes run to completion once issued even if the browser goes away.
// Reads are cancelled with the inbound request.
//
// # Error Handling
//
// Every error the proxy answers has the body {"error": message}:
//
//   - 2xx: the backend status and body are relayed unchanged
//   - non-2xx: the backend status, with message taken from the backend's
//     "detail" or "error" field or the route's fallback
//   - a missing, falsy or dot-segment card id, or no body at all, on update
//     or delete: 400 "Flashcard ID is required" without a backend call
//   - a set id of "." or "..": 400 "Invalid ID"
//   - anything unexpected, including transport failures, malformed backend
//     JSON and backend answers over 10 MiB: 500 "Internal server error"
//
// Internal details are logged, never sent to the browser. HandleError maps
// any error to the status and body that are written.
//
// # Configuration
//
// The backend URL can be swapped at runtime with SetBaseURL, which is how
// configuration reloads take effect:
//
//	config.OnReload(func(cfg *config.Config) {
//	    if err := fwd.SetBaseURL(cfg.Backend.BaseURL); err != nil {
//	        logger.Error("backend URL not applied", "error", err)
//	    }
//	})
//
// # Observability
//
// An Observer receives the outcome of each backend call and each request
// rejected before one. The server wires it to the metrics collector. Each
// backend call also gets a client span named "backend <route>".
//
// # Thread Safety
//
// A Forwarder is safe for concurrent use. SetBaseURL may be called while
// requests are in flight; those requests keep the URL they started with.
package proxy
