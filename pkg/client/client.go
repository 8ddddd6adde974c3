package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"studysharper/flashgate/pkg/auth"
	"studysharper/flashgate/pkg/retry"
)

// DefaultTimeout bounds a single HTTP exchange.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 * 1024 * 1024

// ErrResponseTooLarge is the cause reported when a response body exceeds
// the read limit.
var ErrResponseTooLarge = fmt.Errorf("response body exceeds %d bytes", maxResponseSize)

// Client talks to the flashcard proxy.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     auth.TokenSource
	policy     retry.Policy
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Callers that want cookies
// sent must give it a jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts auth.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRetryPolicy sets the default policy of retry-wrapped operations.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the time source used for cache busting.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the proxy at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		tokens:  auth.None(),
		policy:  retry.DefaultPolicy(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient = &http.Client{Timeout: DefaultTimeout, Jar: jar}
	}
	if c.tokens == nil {
		c.tokens = auth.None()
	}

	return c, nil
}

// BaseURL returns the proxy base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// response is the raw outcome of one exchange.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// send performs one request. The error is non-nil only when no response was
// received.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return response{}, fmt.Errorf("failed to resolve session token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", auth.BearerHeader(token))
	}

	c.logger.DebugContext(ctx, "sending request", "method", method, "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxResponseSize {
		return response{}, ErrResponseTooLarge
	}

	c.logger.DebugContext(ctx, "received response", "method", method, "url", u.String(), "status", resp.StatusCode)

	return response{status: resp.StatusCode, body: data}, nil
}

// call issues a direct operation and decodes its payload into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any, fallback string) (T, error) {
	var zero T

	resp, err := c.send(ctx, method, path, nil, body)
	if err != nil {
		return zero, &APIError{Message: fallback, Cause: err}
	}
	if !resp.ok() {
		return zero, &APIError{Status: resp.status, Message: errorMessage(resp.body, fallback)}
	}

	var out T
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return zero, &APIError{Status: resp.status, Message: fallback, Cause: err}
	}
	return out, nil
}

// attempt builds one retryable attempt. query is evaluated per attempt.
func attempt[T any](c *Client, method, path string, query func() url.Values, body any, fallback string) func(context.Context) retry.Result[T] {
	return func(ctx context.Context) retry.Result[T] {
		var q url.Values
		if query != nil {
			q = query()
		}

		resp, err := c.send(ctx, method, path, q, body)
		if err != nil {
			c.logger.WarnContext(ctx, "request failed", "path", path, "error", err)
			return retry.TransportFailure[T](fallback, err)
		}
		if !resp.ok() {
			return retry.Failure[T](resp.status, errorMessage(resp.body, fallback))
		}

		var out T
		if len(bytes.TrimSpace(resp.body)) > 0 {
			if err := json.Unmarshal(resp.body, &out); err != nil {
				return retry.Result[T]{Status: resp.status, Error: fallback, Err: err}
			}
		}
		return retry.Success(resp.status, out)
	}
}

// detached returns a context that is not cancelled when ctx is, so a write
// that has been issued always runs to completion.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
