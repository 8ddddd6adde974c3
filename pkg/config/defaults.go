package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 1048576 // 1MB

	// TLS defaults
	DefaultTLSMinVersion     = "1.2"
	DefaultTLSReloadInterval = 5 * time.Minute

	// CORS defaults
	DefaultCORSMaxAge           = 3600
	DefaultCORSAllowCredentials = true

	// Backend defaults
	DefaultBackendBaseURL       = "https://study-sharper-backend-production.up.railway.app"
	DefaultBackendTimeout       = 60 * time.Second
	DefaultBackendHealthPath    = "/health"
	DefaultBackendProbeSchedule = "@every 30s"
	DefaultBackendProbeTimeout  = 5 * time.Second

	// Client defaults
	DefaultClientBaseURL     = "http://127.0.0.1:8080"
	DefaultClientTimeout     = 30 * time.Second
	DefaultClientTokenEnv    = "FLASHGATE_TOKEN"
	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 500 * time.Millisecond
	DefaultRetryMaxDelay     = 5 * time.Second
	DefaultRetryMultiplier   = 2.0
	DefaultRetryJitter       = 0.2
	DefaultJWTTTL            = time.Hour

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "flashgate"
	DefaultMetricsSubsystem = "proxy"
	DefaultTracingSampler   = "ratio"
	DefaultTracingRatio     = 0.1
	DefaultTracingService   = "flashgate"
	DefaultOTLPInsecure     = true
	DefaultOTLPTimeout      = 10 * time.Second
)

// Default slice values.
var (
	DefaultCORSAllowedOrigins = []string{"http://localhost:3000"}
	DefaultCORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "Cache-Control", "Pragma", "Expires", "X-Request-ID"}
	DefaultCORSExposedHeaders = []string{"X-Request-ID"}
	DefaultDurationBuckets    = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
)

// DefaultConfig returns a configuration with every default applied,
// including the boolean defaults that ApplyDefaults cannot infer from zero
// values. Files are decoded on top of it.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Proxy.CORS.AllowCredentials = DefaultCORSAllowCredentials
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.OTLP.Insecure = DefaultOTLPInsecure
	cfg.Backend.HealthPath = DefaultBackendHealthPath
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Proxy.CORS)
	if cfg.Proxy.TLS.MinVersion == "" {
		cfg.Proxy.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Proxy.TLS.ReloadInterval == 0 {
		cfg.Proxy.TLS.ReloadInterval = DefaultTLSReloadInterval
	}

	// Backend defaults
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendBaseURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = DefaultBackendTimeout
	}
	if cfg.Backend.ProbeSchedule == "" {
		cfg.Backend.ProbeSchedule = DefaultBackendProbeSchedule
	}
	if cfg.Backend.ProbeTimeout == 0 {
		cfg.Backend.ProbeTimeout = DefaultBackendProbeTimeout
	}

	// Client defaults
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = DefaultClientBaseURL
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = DefaultClientTimeout
	}
	if cfg.Client.TokenEnv == "" {
		cfg.Client.TokenEnv = DefaultClientTokenEnv
	}
	if cfg.Client.Retry.MaxAttempts == 0 {
		cfg.Client.Retry.MaxAttempts = DefaultRetryMaxAttempts
	}
	if cfg.Client.Retry.InitialDelay == 0 {
		cfg.Client.Retry.InitialDelay = DefaultRetryInitialDelay
	}
	if cfg.Client.Retry.MaxDelay == 0 {
		cfg.Client.Retry.MaxDelay = DefaultRetryMaxDelay
	}
	if cfg.Client.Retry.Multiplier == 0 {
		cfg.Client.Retry.Multiplier = DefaultRetryMultiplier
	}
	if cfg.Client.Retry.Jitter == 0 {
		cfg.Client.Retry.Jitter = DefaultRetryJitter
	}
	if cfg.Client.JWT.TTL == 0 {
		cfg.Client.JWT.TTL = DefaultJWTTTL
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}

func applyCORSDefaults(cfg *CORSConfig) {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), DefaultCORSAllowedOrigins...)
	}
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = append([]string(nil), DefaultCORSAllowedMethods...)
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = append([]string(nil), DefaultCORSAllowedHeaders...)
	}
	if len(cfg.ExposedHeaders) == 0 {
		cfg.ExposedHeaders = append([]string(nil), DefaultCORSExposedHeaders...)
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultCORSMaxAge
	}
}
