// Package middleware provides the HTTP middleware wrapped around the proxy
// mux: request IDs, access logging, panic recovery and CORS.
//
// The server applies them outermost first:
//
//	handler = RecoveryMiddleware(logger)(handler)
//	handler = LoggingMiddleware(logger)(handler)
//	handler = tracing.HTTPMiddleware(handler)
//	handler = RequestIDMiddleware(handler)
//	handler = CORSMiddleware(cfg.CORS)(handler)
//
// Request IDs are stored with logging.WithRequestID so every log line
// written while serving a request carries the ID.
package middleware
