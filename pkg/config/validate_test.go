package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default configuration must be valid: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{
			name:   "missing listen address",
			modify: func(c *Config) { c.Proxy.ListenAddress = "" },
			field:  "proxy.listen_address",
		},
		{
			name:   "malformed listen address",
			modify: func(c *Config) { c.Proxy.ListenAddress = "localhost" },
			field:  "proxy.listen_address",
		},
		{
			name:   "negative read timeout",
			modify: func(c *Config) { c.Proxy.ReadTimeout = -1 },
			field:  "proxy.read_timeout",
		},
		{
			name:   "tls without certificate",
			modify: func(c *Config) { c.Proxy.TLS.Enabled = true; c.Proxy.TLS.KeyFile = "key.pem" },
			field:  "proxy.tls.cert_file",
		},
		{
			name:   "tls 1.1",
			modify: func(c *Config) { c.Proxy.TLS.MinVersion = "1.1" },
			field:  "proxy.tls.min_version",
		},
		{
			name:   "relative backend URL",
			modify: func(c *Config) { c.Backend.BaseURL = "/api" },
			field:  "backend.base_url",
		},
		{
			name:   "health path without slash",
			modify: func(c *Config) { c.Backend.HealthPath = "health" },
			field:  "backend.health_path",
		},
		{
			name:   "bad probe schedule",
			modify: func(c *Config) { c.Backend.ProbeSchedule = "every now and then" },
			field:  "backend.probe_schedule",
		},
		{
			name:   "zero retry attempts",
			modify: func(c *Config) { c.Client.Retry.MaxAttempts = 0 },
			field:  "client.retry.max_attempts",
		},
		{
			name:   "jitter out of range",
			modify: func(c *Config) { c.Client.Retry.Jitter = 1.5 },
			field:  "client.retry.jitter",
		},
		{
			name:   "signing key without subject",
			modify: func(c *Config) { c.Client.JWT.SigningKey = "secret" },
			field:  "client.jwt.subject",
		},
		{
			name:   "unknown log level",
			modify: func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "tracing without endpoint",
			modify: func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			field:  "telemetry.tracing.endpoint",
		},
		{
			name:   "metrics enabled without path",
			modify: func(c *Config) { c.Telemetry.Metrics.Path = "" },
			field:  "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !verr.HasField(tt.field) {
				t.Errorf("expected error for %q, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "b: worse") {
		t.Errorf("Error() = %q", got)
	}
}
