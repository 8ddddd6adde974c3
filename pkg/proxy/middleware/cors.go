package middleware

import (
	"net/http"

	"studysharper/flashgate/pkg/config"

	"github.com/rs/cors"
)

// CORSMiddleware applies cfg with rs/cors. When CORS is disabled the handler
// is returned unchanged, which suits same-origin deployments behind the web
// app's domain.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		MaxAge:           cfg.MaxAge,
		AllowCredentials: cfg.AllowCredentials,
	})
	return c.Handler
}
