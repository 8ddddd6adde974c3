// Package tracing wires OpenTelemetry into flashgate.
//
// When tracing is enabled spans are exported over OTLP/gRPC. When it is
// disabled a noop tracer is used, but W3C trace context received from the
// browser is still forwarded to the backend, so traces started upstream stay
// connected.
//
// Example usage:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "proxy.forward")
//	defer span.End()
//	tracing.Inject(ctx, outbound.Header)
package tracing
