// Package server assembles the flashgate edge proxy: the flashcard routes,
// health and metrics endpoints, the middleware chain and the HTTP server
// lifecycle.
//
// Basic usage:
//
//	srv, err := server.New(cfg, server.WithLogger(logger), server.WithTracer(tracer))
//	if err != nil {
//	    return err
//	}
//	config.OnReload(func(c *config.Config) { _ = srv.ApplyConfig(c) })
//	return srv.Start(ctx)
//
// Start blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests for up to the configured shutdown timeout.
package server
