// Package telemetry groups flashgate's observability packages.
//
// # Components
//
//   - logging: slog logger with a runtime-adjustable level, request-scoped
//     fields and credential redaction
//   - metrics: Prometheus counters and histograms for proxied requests,
//     rejections, backend calls and backend probes
//   - tracing: OpenTelemetry spans for backend calls and W3C trace context
//     propagation
//   - health: liveness and readiness endpoints backed by a scheduled
//     backend probe
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	ctx, span := tracer.Start(ctx, "backend.sets.list")
//	defer span.End()
//
// # Redaction
//
// Attributes whose keys name credentials (authorization, token, secret,
// password, signing_key) are replaced before they are written, and bearer
// tokens inside string values are masked.
package telemetry
