// Package logging builds the process-wide slog logger.
//
// Loggers created by New emit JSON or text at a level that can be changed at
// runtime, attach request-scoped fields stored in the context (request id,
// route name) and redact credentials before they reach the output.
//
// Example usage:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "forwarding request", "route", "sets.list")
package logging
