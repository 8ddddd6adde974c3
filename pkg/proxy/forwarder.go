package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"studysharper/flashgate/pkg/proxy/types"
	"studysharper/flashgate/pkg/telemetry/logging"
	"studysharper/flashgate/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxBackendBody bounds how much of a backend answer is read.
const maxBackendBody = 10 << 20

var errBackendTooLarge = fmt.Errorf("backend response exceeds %d bytes", maxBackendBody)

// Observer receives backend call and rejection outcomes.
type Observer interface {
	ObserveBackend(route string, status int, duration time.Duration, err error)
	ObserveRejection(route, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveBackend(string, int, time.Duration, error) {}
func (nopObserver) ObserveRejection(string, string)                  {}

// Forwarder relays browser requests to the backend API.
type Forwarder struct {
	baseURL  atomic.Pointer[url.URL]
	client   *http.Client
	observer Observer
	tracer   *tracing.Tracer
	logger   *slog.Logger
	maxBody  int64
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithHTTPClient sets the client used for backend calls. Its Timeout bounds
// every backend call.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Forwarder) { f.client = c }
}

// WithObserver records backend outcomes, typically into metrics.
func WithObserver(o Observer) Option {
	return func(f *Forwarder) { f.observer = o }
}

// WithTracer sets the tracer for backend spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(f *Forwarder) { f.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) { f.logger = l }
}

// WithMaxBodyBytes bounds inbound bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Forwarder) { f.maxBody = n }
}

// NewForwarder creates a Forwarder for the backend at baseURL.
func NewForwarder(baseURL string, opts ...Option) (*Forwarder, error) {
	f := &Forwarder{
		client:   &http.Client{Timeout: 30 * time.Second},
		observer: nopObserver{},
		tracer:   tracing.Noop(),
		logger:   slog.Default(),
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.SetBaseURL(baseURL); err != nil {
		return nil, err
	}
	return f, nil
}

// SetBaseURL swaps the backend URL. In-flight requests keep the old one.
func (f *Forwarder) SetBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: must be an absolute http(s) URL", raw)
	}
	f.baseURL.Store(u)
	return nil
}

// BaseURL returns the current backend URL.
func (f *Forwarder) BaseURL() string {
	return f.baseURL.Load().String()
}

// Forward serves r according to route and returns the status written.
// It never lets an error or panic escape: unexpected failures are answered
// with 500 {"error": "Internal server error"}.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, route Route) (status int) {
	ctx := logging.WithRoute(r.Context(), route.Name)

	defer func() {
		if rec := recover(); rec != nil {
			f.logger.ErrorContext(ctx, "panic while forwarding",
				"error", rec,
				"stack", string(debug.Stack()),
			)
			status = f.writeError(w, route, http.StatusInternalServerError, types.NewServerError())
		}
	}()

	if route.NoStore {
		w.Header().Set("Cache-Control", "no-store")
	}

	status, body, err := f.forward(ctx, r, route)
	if err != nil {
		code, errResp := HandleError(err)

		var reqErr *RequestError
		var backendErr *BackendError
		switch {
		case errors.As(err, &reqErr):
			f.observer.ObserveRejection(route.Name, reqErr.Reason)
			f.logger.WarnContext(ctx, "request rejected", "reason", reqErr.Reason)
		case errors.As(err, &backendErr):
			f.logger.WarnContext(ctx, "backend returned error",
				"status", backendErr.Status,
				"message", backendErr.Message,
			)
		default:
			f.logger.ErrorContext(ctx, "forwarding failed", "error", err)
		}
		return f.writeError(w, route, code, errResp)
	}

	if route.Acknowledge {
		if err := WriteJSONResponse(w, http.StatusOK, types.SuccessResponse{Success: true}); err != nil {
			f.logger.DebugContext(ctx, "failed to write response", "error", err)
		}
		return http.StatusOK
	}

	if err := WriteRawJSON(w, status, body); err != nil {
		f.logger.DebugContext(ctx, "failed to write response", "error", err)
	}
	return status
}

func (f *Forwarder) writeError(w http.ResponseWriter, route Route, status int, errResp *types.ErrorResponse) int {
	if route.NoStore {
		w.Header().Set("Cache-Control", "no-store")
	}
	_ = WriteErrorResponse(w, status, errResp)
	return status
}

// forward performs the backend call. A nil error means a 2xx answer whose
// body is either empty or valid JSON.
func (f *Forwarder) forward(ctx context.Context, r *http.Request, route Route) (int, []byte, error) {
	var body *Body
	if route.Body != BodyNone {
		var err error
		body, err = ReadBody(r, f.maxBody)
		if err != nil {
			return 0, nil, err
		}
		if body == nil && route.RequireID {
			return 0, nil, errMissingID
		}
		if body == nil && route.Body == BodyRequired {
			return 0, nil, errors.New("request body is required")
		}
	}

	var id string
	if route.RequireID {
		var ok bool
		if id, ok = body.ID(); !ok {
			return 0, nil, errMissingID
		}
	}

	backendPath, err := route.backendPath(r, id)
	if err != nil {
		return 0, nil, err
	}

	var payload []byte
	if body != nil && !route.DropBody {
		var err error
		if payload, err = body.Marshal(); err != nil {
			return 0, nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}

	// Writes run to completion once issued, bounded by the client timeout.
	if route.Method != http.MethodGet {
		ctx = context.WithoutCancel(ctx)
	}

	target := f.baseURL.Load().JoinPath(backendPath)

	ctx, span := f.tracer.Start(ctx, "backend "+route.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", route.Method),
			attribute.String("url.path", target.Path),
		),
	)
	defer span.End()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	out, err := http.NewRequestWithContext(ctx, route.Method, target.String(), reader)
	if err != nil {
		tracing.SetError(span, err)
		return 0, nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	if auth := r.Header.Get(AuthorizationHeader); auth != "" {
		out.Header.Set(AuthorizationHeader, auth)
	}
	out.Header.Set("Content-Type", ContentTypeJSON)
	if requestID := logging.GetRequestID(ctx); requestID != "" {
		out.Header.Set(RequestIDHeader, requestID)
	}
	tracing.Inject(ctx, out.Header)

	f.logger.DebugContext(ctx, "forwarding request",
		"method", route.Method,
		"path", target.Path,
		"authorized", out.Header.Get(AuthorizationHeader) != "",
	)

	start := time.Now()
	resp, err := f.client.Do(out)
	if err != nil {
		f.observer.ObserveBackend(route.Name, 0, time.Since(start), err)
		tracing.SetError(span, err)
		return 0, nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBackendBody+1))
	if err == nil && len(respBody) > maxBackendBody {
		err = errBackendTooLarge
	}
	f.observer.ObserveBackend(route.Name, resp.StatusCode, time.Since(start), err)
	tracing.SetHTTPStatus(span, resp.StatusCode)
	if err != nil {
		tracing.SetError(span, err)
		return 0, nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, nil, &BackendError{
			Status:  resp.StatusCode,
			Message: backendMessage(respBody, route.Fallback),
		}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return resp.StatusCode, nil, nil
	}
	if !json.Valid(respBody) {
		return 0, nil, fmt.Errorf("backend returned non-JSON body for status %d", resp.StatusCode)
	}
	return resp.StatusCode, respBody, nil
}
