package config

import "time"

// Config is the root configuration structure for flashgate. It covers the
// edge proxy, the backend it forwards to, the client library used by the CLI,
// and telemetry.
type Config struct {
	// Proxy contains HTTP server configuration for the edge proxy.
	Proxy ProxyConfig `yaml:"proxy"`

	// Backend describes the flashcard backend requests are forwarded to.
	Backend BackendConfig `yaml:"backend"`

	// Client configures the client library used by the CLI subcommands.
	Client ClientConfig `yaml:"client"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP proxy server.
type ProxyConfig struct {
	// ListenAddress is the address and port for the proxy to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address" validate:"required,hostname_port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0s"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the backend timeout or slow backend answers
	// are cut off.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0s"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0s"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0s"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0,lte=10485760"`

	// MaxBodyBytes limits the size of forwarded request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gte=0"`

	// WatchConfig reloads the configuration file when it changes. Only the
	// backend base URL and log level take effect without a restart.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS serves the proxy over HTTPS when enabled.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains HTTPS configuration for the proxy listener.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file" validate:"required_if=Enabled true"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file" validate:"required_if=Enabled true"`

	// MinVersion is the minimum TLS version ("1.2" or "1.3").
	// Default: "1.2"
	MinVersion string `yaml:"min_version" validate:"omitempty,oneof=1.2 1.3"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. Renewed certificates are picked up without a restart.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval" validate:"gte=0s"`
}

// CORSConfig contains CORS configuration. The browser UI is normally served
// from the same origin, so CORS only matters for development setups.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins.
	// Default: ["http://localhost:3000"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Authorization", "Content-Type", "Cache-Control", "Pragma", "Expires", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the browser.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age" validate:"gte=0"`

	// AllowCredentials allows cookies on cross-origin requests.
	// Default: true
	AllowCredentials bool `yaml:"allow_credentials"`
}

// BackendConfig describes the remote flashcard backend.
type BackendConfig struct {
	// BaseURL is the backend root. BACKEND_API_URL overrides it.
	// Default: "https://study-sharper-backend-production.up.railway.app"
	BaseURL string `yaml:"base_url" validate:"required,http_url"`

	// Timeout bounds a single forwarded request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout" validate:"gte=0s"`

	// HealthPath is probed to answer readiness checks. Empty disables
	// probing and the proxy always reports ready.
	// Default: "/health"
	HealthPath string `yaml:"health_path" validate:"omitempty,startswith=/"`

	// ProbeSchedule is a cron expression (or @every descriptor) for backend
	// probes.
	// Default: "@every 30s"
	ProbeSchedule string `yaml:"probe_schedule"`

	// ProbeTimeout bounds a single probe.
	// Default: 5s
	ProbeTimeout time.Duration `yaml:"probe_timeout" validate:"gte=0s"`
}

// ClientConfig configures the client library.
type ClientConfig struct {
	// BaseURL is the edge proxy the client talks to.
	// Default: "http://127.0.0.1:8080"
	BaseURL string `yaml:"base_url" validate:"required,http_url"`

	// Timeout bounds a single HTTP exchange.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" validate:"gte=0s"`

	// TokenEnv names the environment variable holding the session token.
	// Ignored when JWT.SigningKey is set.
	// Default: "FLASHGATE_TOKEN"
	TokenEnv string `yaml:"token_env"`

	// Retry is the default policy of retry-wrapped operations.
	Retry RetryConfig `yaml:"retry"`

	// JWT mints session tokens locally instead of reading TokenEnv.
	JWT JWTConfig `yaml:"jwt"`
}

// RetryConfig is the retry policy of retry-wrapped operations.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts" validate:"gte=1,lte=10"`

	// InitialDelay is the wait before the second attempt.
	// Default: 500ms
	InitialDelay time.Duration `yaml:"initial_delay" validate:"gte=0s"`

	// MaxDelay caps the wait between attempts.
	// Default: 5s
	MaxDelay time.Duration `yaml:"max_delay" validate:"gte=0s"`

	// Multiplier grows the wait after each failed attempt.
	// Default: 2
	Multiplier float64 `yaml:"multiplier" validate:"gte=1"`

	// Jitter randomizes each wait by +/- this fraction.
	// Default: 0.2
	Jitter float64 `yaml:"jitter" validate:"gte=0,lt=1"`

	// TransientOnly restricts retries to timeouts, 429 and 5xx responses.
	// Default: false
	TransientOnly bool `yaml:"transient_only"`
}

// JWTConfig configures locally minted HS256 session tokens.
type JWTConfig struct {
	// SigningKey is the shared HS256 secret. Empty disables minting.
	SigningKey string `yaml:"signing_key"`

	// Subject is the user id tokens are minted for.
	Subject string `yaml:"subject" validate:"required_with=SigningKey"`

	// Issuer is written to the iss claim.
	Issuer string `yaml:"issuer"`

	// Audience is written to the aud claim.
	Audience string `yaml:"audience"`

	// TTL is the token lifetime.
	// Default: 1h
	TTL time.Duration `yaml:"ttl" validate:"gte=0s"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format" validate:"required,oneof=json text"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the Prometheus endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" validate:"omitempty,startswith=/"`

	// Namespace is the metric name prefix.
	// Default: "flashgate"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "proxy"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for backend latency (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler" validate:"omitempty,oneof=always never ratio"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint" validate:"required_if=Enabled true"`

	// ServiceName is the service name in traces.
	// Default: "flashgate"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" validate:"gte=0s"`
}
