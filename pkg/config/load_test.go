package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flashgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
proxy:
  listen_address: "0.0.0.0:9090"
  read_timeout: "45s"

backend:
  base_url: "https://backend.example.com"
  timeout: "20s"

client:
  retry:
    max_attempts: 5

telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Proxy.ListenAddress)
	}
	if cfg.Proxy.ReadTimeout != 45*time.Second {
		t.Errorf("expected read timeout %v, got %v", 45*time.Second, cfg.Proxy.ReadTimeout)
	}
	if cfg.Backend.BaseURL != "https://backend.example.com" {
		t.Errorf("expected backend %q, got %q", "https://backend.example.com", cfg.Backend.BaseURL)
	}
	if cfg.Client.Retry.MaxAttempts != 5 {
		t.Errorf("expected max attempts 5, got %d", cfg.Client.Retry.MaxAttempts)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected log level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}

	// Unset fields keep their defaults, including boolean ones.
	if cfg.Proxy.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Proxy.WriteTimeout)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Backend.HealthPath != DefaultBackendHealthPath {
		t.Errorf("expected health path %q, got %q", DefaultBackendHealthPath, cfg.Backend.HealthPath)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "proxy: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != DefaultBackendBaseURL {
		t.Errorf("expected backend %q, got %q", DefaultBackendBaseURL, cfg.Backend.BaseURL)
	}
	if cfg.Client.BaseURL != DefaultClientBaseURL {
		t.Errorf("expected client base %q, got %q", DefaultClientBaseURL, cfg.Client.BaseURL)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: "https://file.example.com"
`)

	t.Setenv("FLASHGATE_PROXY_LISTEN_ADDRESS", "127.0.0.1:7000")
	t.Setenv("FLASHGATE_CLIENT_RETRY_MAX_ATTEMPTS", "4")
	t.Setenv("FLASHGATE_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("FLASHGATE_PROXY_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FLASHGATE_CLIENT_TIMEOUT", "not-a-duration")
	t.Setenv("FLASHGATE_PROXY_TLS_ENABLED", "true")
	t.Setenv("FLASHGATE_PROXY_TLS_CERT_FILE", "/etc/flashgate/cert.pem")
	t.Setenv("FLASHGATE_PROXY_TLS_KEY_FILE", "/etc/flashgate/key.pem")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Proxy.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("expected %q, got %q", "127.0.0.1:7000", cfg.Proxy.ListenAddress)
	}
	if cfg.Client.Retry.MaxAttempts != 4 {
		t.Errorf("expected 4 attempts, got %d", cfg.Client.Retry.MaxAttempts)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
	if len(cfg.Proxy.CORS.AllowedOrigins) != 2 || cfg.Proxy.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.Proxy.CORS.AllowedOrigins)
	}
	if cfg.Client.Timeout != DefaultClientTimeout {
		t.Errorf("unparsable override must be ignored, got %v", cfg.Client.Timeout)
	}
	if cfg.Backend.BaseURL != "https://file.example.com" {
		t.Errorf("expected file backend, got %q", cfg.Backend.BaseURL)
	}
	if !cfg.Proxy.TLS.Enabled || cfg.Proxy.TLS.CertFile != "/etc/flashgate/cert.pem" || cfg.Proxy.TLS.MinVersion != DefaultTLSMinVersion {
		t.Errorf("unexpected tls config %+v", cfg.Proxy.TLS)
	}
}

func TestBackendURLEnvTakesPrecedence(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: "https://file.example.com"
`)
	t.Setenv("FLASHGATE_BACKEND_BASE_URL", "https://prefixed.example.com")
	t.Setenv("BACKEND_API_URL", "https://env.example.com")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "https://env.example.com" {
		t.Errorf("expected %q, got %q", "https://env.example.com", cfg.Backend.BaseURL)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("FLASHGATE_TELEMETRY_LOGGING_LEVEL", "verbose")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("FLASHGATE_DOTENV_TEST=from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	t.Setenv("FLASHGATE_DOTENV_TEST", "")
	os.Unsetenv("FLASHGATE_DOTENV_TEST")

	if err := LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("FLASHGATE_DOTENV_TEST"); got != "from-file" {
		t.Errorf("expected %q, got %q", "from-file", got)
	}
}
