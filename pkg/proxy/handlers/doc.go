// Package handlers mounts the proxy routes on an http.ServeMux.
//
// Every route in proxy.Routes gets a handler that forwards through a
// proxy.Forwarder and records the answered status. Inbound requests are
// matched with Go 1.22 method and wildcard patterns, so
// "DELETE /api/flashcards/sets/{id}" and "DELETE /api/flashcards" are
// distinct routes. Requests with an unregistered method get ServeMux's 405.
package handlers
