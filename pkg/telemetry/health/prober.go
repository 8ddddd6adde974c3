package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrNotProbed is reported by the backend check before the first probe.
var ErrNotProbed = errors.New("backend not probed yet")

// ProbeObserver receives the outcome of each probe.
type ProbeObserver interface {
	ObserveProbe(healthy bool, duration time.Duration)
}

// ProberConfig configures a Prober.
type ProberConfig struct {
	// BaseURL returns the current backend URL. It is called on every probe
	// so config reloads take effect.
	BaseURL func() string

	// Path is appended to the base URL, e.g. "/health".
	Path string

	// Schedule is a standard cron expression or descriptor such as "@every 30s".
	Schedule string

	// Timeout bounds a single probe.
	Timeout time.Duration

	HTTPClient *http.Client
	Observer   ProbeObserver
	Logger     *slog.Logger
}

// ProbeResult is the cached outcome of the last probe.
type ProbeResult struct {
	Healthy   bool
	Status    int
	Err       error
	Duration  time.Duration
	CheckedAt time.Time
}

// Prober polls the backend health endpoint on a schedule and caches the
// result for the readiness check.
type Prober struct {
	cfg  ProberConfig
	cron *cron.Cron

	mu   sync.RWMutex
	last *ProbeResult
}

// NewProber validates the schedule and returns a stopped Prober.
func NewProber(cfg ProberConfig) (*Prober, error) {
	if cfg.BaseURL == nil {
		return nil, errors.New("prober requires a base URL")
	}
	if cfg.Schedule == "" {
		return nil, errors.New("prober requires a schedule")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &Prober{cfg: cfg, cron: cron.New()}
	if _, err := p.cron.AddFunc(cfg.Schedule, func() { p.Probe(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

// Start runs one probe immediately, then follows the schedule.
func (p *Prober) Start(ctx context.Context) {
	p.Probe(ctx)
	p.cron.Start()
}

// Stop halts the schedule and waits for a running probe to finish.
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
}

// Probe performs a single probe and caches the result.
func (p *Prober) Probe(ctx context.Context) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	target := strings.TrimRight(p.cfg.BaseURL(), "/") + p.cfg.Path
	start := time.Now()
	result := ProbeResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err == nil {
		var resp *http.Response
		resp, err = p.cfg.HTTPClient.Do(req)
		if err == nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			resp.Body.Close()
			result.Status = resp.StatusCode
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				err = fmt.Errorf("backend health returned %d", resp.StatusCode)
			}
		}
	}

	result.Duration = time.Since(start)
	result.CheckedAt = time.Now().UTC()
	result.Err = err
	result.Healthy = err == nil

	p.mu.Lock()
	previous := p.last
	p.last = &result
	p.mu.Unlock()

	if p.cfg.Observer != nil {
		p.cfg.Observer.ObserveProbe(result.Healthy, result.Duration)
	}

	if previous == nil || previous.Healthy != result.Healthy {
		if result.Healthy {
			p.cfg.Logger.Info("backend healthy", "url", target, "duration", result.Duration)
		} else {
			p.cfg.Logger.Warn("backend unhealthy", "url", target, "error", err)
		}
	}

	return result
}

// Last returns the most recent probe result, if any.
func (p *Prober) Last() (ProbeResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return ProbeResult{}, false
	}
	return *p.last, true
}

// Check reports the cached probe outcome. It never calls the backend.
func (p *Prober) Check(context.Context) error {
	last, ok := p.Last()
	if !ok {
		return ErrNotProbed
	}
	return last.Err
}
