package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"studysharper/flashgate/pkg/config"
	"studysharper/flashgate/pkg/proxy"
	"studysharper/flashgate/pkg/proxy/handlers"
	"studysharper/flashgate/pkg/proxy/middleware"
	securityTLS "studysharper/flashgate/pkg/security/tls"
	"studysharper/flashgate/pkg/telemetry/health"
	"studysharper/flashgate/pkg/telemetry/logging"
	"studysharper/flashgate/pkg/telemetry/metrics"
	"studysharper/flashgate/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

// Server is the flashgate edge proxy.
type Server struct {
	config    *config.Config
	logger    *logging.Logger
	tracer    *tracing.Tracer
	registry  *prometheus.Registry
	backendHC *http.Client

	forwarder *proxy.Forwarder
	collector *metrics.Collector
	checker   *health.Checker
	prober    *health.Prober
	certs     *securityTLS.CertificateReloader
	handler   http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
	ready      chan struct{}
	isRunning  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Its level is adjusted on config reload.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTracer sets the tracer used for backend spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithRegistry registers metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithBackendClient overrides the HTTP client used for backend calls and
// probes.
func WithBackendClient(c *http.Client) Option {
	return func(s *Server) { s.backendHC = c }
}

// New builds a Server from cfg. Nothing listens until Start.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is nil")
	}

	s := &Server{config: cfg, ready: make(chan struct{})}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		logger, err := logging.New(logging.Config{
			Level:  cfg.Telemetry.Logging.Level,
			Format: cfg.Telemetry.Logging.Format,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		s.logger = logger
	}
	if s.tracer == nil {
		s.tracer = tracing.Noop()
	}
	if s.backendHC == nil {
		s.backendHC = &http.Client{Timeout: cfg.Backend.Timeout}
	}

	fwdOpts := []proxy.Option{
		proxy.WithHTTPClient(s.backendHC),
		proxy.WithTracer(s.tracer),
		proxy.WithLogger(s.logger.Logger),
		proxy.WithMaxBodyBytes(cfg.Proxy.MaxBodyBytes),
	}
	if cfg.Telemetry.Metrics.Enabled {
		s.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, s.registry)
		fwdOpts = append(fwdOpts, proxy.WithObserver(s.collector))
	}

	fwd, err := proxy.NewForwarder(cfg.Backend.BaseURL, fwdOpts...)
	if err != nil {
		return nil, err
	}
	s.forwarder = fwd

	s.checker = health.New(cfg.Backend.ProbeTimeout)
	if cfg.Backend.HealthPath != "" {
		proberCfg := health.ProberConfig{
			BaseURL:    fwd.BaseURL,
			Path:       cfg.Backend.HealthPath,
			Schedule:   cfg.Backend.ProbeSchedule,
			Timeout:    cfg.Backend.ProbeTimeout,
			HTTPClient: s.backendHC,
			Logger:     s.logger.Logger,
		}
		if s.collector != nil {
			proberCfg.Observer = s.collector
		}
		prober, err := health.NewProber(proberCfg)
		if err != nil {
			return nil, err
		}
		s.prober = prober
		s.checker.RegisterCheck("backend", prober.Check)
	}

	if tlsCfg := cfg.Proxy.TLS; tlsCfg.Enabled {
		s.certs = securityTLS.NewCertificateReloader(tlsCfg.CertFile, tlsCfg.KeyFile, tlsCfg.ReloadInterval, s.logger.Logger)
		if err := s.certs.Load(); err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
	}

	s.handler = s.setupRoutes()
	return s, nil
}

// setupRoutes mounts every endpoint and wraps the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	var observer handlers.RequestObserver
	if s.collector != nil {
		observer = s.collector
	}
	handlers.NewFlashcardHandler(s.forwarder, observer).Register(mux)

	mux.Handle("GET /health", s.checker.LivenessHandler())
	mux.Handle("GET /ready", s.checker.ReadinessHandler())
	if s.collector != nil {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(s.logger.Logger)(handler)
	handler = middleware.LoggingMiddleware(s.logger.Logger)(handler)
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORSMiddleware(s.config.Proxy.CORS)(handler)

	return handler
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Forwarder returns the backend forwarder.
func (s *Server) Forwarder() *proxy.Forwarder {
	return s.forwarder
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Proxy.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Proxy.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.Proxy.ReadTimeout,
		ReadHeaderTimeout: s.config.Proxy.ReadTimeout,
		WriteTimeout:      s.config.Proxy.WriteTimeout,
		IdleTimeout:       s.config.Proxy.IdleTimeout,
		MaxHeaderBytes:    s.config.Proxy.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	close(s.ready)
	s.mu.Unlock()

	if s.prober != nil {
		s.prober.Start(ctx)
	}

	serve := s.httpServer.Serve
	if s.certs != nil {
		s.httpServer.TLSConfig = securityTLS.ServerConfig(s.config.Proxy.TLS.MinVersion, s.certs)
		go s.certs.Run(ctx)
		serve = func(ln net.Listener) error { return s.httpServer.ServeTLS(ln, "", "") }
	}

	s.logger.Info("starting proxy server",
		"address", ln.Addr().String(),
		"scheme", s.Scheme(),
		"backend", s.forwarder.BaseURL(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	case err, ok := <-errCh:
		_ = s.Shutdown(context.Background())
		if ok {
			return err
		}
		return nil
	}
}

// Scheme is "https" when TLS is enabled and "http" otherwise.
func (s *Server) Scheme() string {
	if s.certs != nil {
		return "https"
	}
	return "http"
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown stops the prober and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	srv := s.httpServer
	s.mu.Unlock()

	if s.prober != nil {
		s.prober.Stop()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Proxy.ShutdownTimeout)
	defer cancel()

	s.logger.Info("initiating graceful shutdown", "timeout", s.config.Proxy.ShutdownTimeout.String())
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("proxy server stopped")
	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// ApplyConfig applies the settings that can change without a restart: the
// backend URL and the log level. Other changes are logged and ignored.
func (s *Server) ApplyConfig(cfg *config.Config) error {
	if err := s.forwarder.SetBaseURL(cfg.Backend.BaseURL); err != nil {
		return err
	}
	if err := s.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
		return err
	}
	if cfg.Proxy.ListenAddress != s.config.Proxy.ListenAddress {
		s.logger.Warn("listen address change requires a restart",
			"current", s.config.Proxy.ListenAddress,
			"configured", cfg.Proxy.ListenAddress,
		)
	}
	s.logger.Info("configuration applied",
		"backend", s.forwarder.BaseURL(),
		"log_level", cfg.Telemetry.Logging.Level,
	)
	return nil
}
