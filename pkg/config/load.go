package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every flashgate environment override.
const EnvPrefix = "FLASHGATE_"

// BackendURLEnv is the environment variable the backend base URL is read
// from. It takes precedence over every other source.
const BackendURLEnv = "BACKEND_API_URL"

// LoadConfig loads configuration from a YAML file at the specified path.
// Fields absent from the file keep their defaults. Environment variables are
// not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. An empty path, or a path that does not exist when
// optional is true, yields the defaults.
//
// The loading sequence is:
//  1. Load YAML from file (or start from defaults)
//  2. Apply default values
//  3. Apply FLASHGATE_* and BACKEND_API_URL overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	return load(path, false)
}

// LoadOptional behaves like LoadConfigWithEnvOverrides but treats a missing
// file as empty. It is used for the default config location.
func LoadOptional(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, optional bool) (*Config, error) {
	var cfg *Config

	if path == "" {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = parse(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
			}
		case optional && errors.Is(err, fs.ErrNotExist):
			cfg = DefaultConfig()
		default:
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables that are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Names follow FLASHGATE_SECTION_FIELD; values that fail to
// parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Proxy overrides
	envString("PROXY_LISTEN_ADDRESS", &cfg.Proxy.ListenAddress)
	envDuration("PROXY_READ_TIMEOUT", &cfg.Proxy.ReadTimeout)
	envDuration("PROXY_WRITE_TIMEOUT", &cfg.Proxy.WriteTimeout)
	envDuration("PROXY_IDLE_TIMEOUT", &cfg.Proxy.IdleTimeout)
	envDuration("PROXY_SHUTDOWN_TIMEOUT", &cfg.Proxy.ShutdownTimeout)
	envBool("PROXY_WATCH_CONFIG", &cfg.Proxy.WatchConfig)
	envBool("PROXY_CORS_ENABLED", &cfg.Proxy.CORS.Enabled)
	envList("PROXY_CORS_ALLOWED_ORIGINS", &cfg.Proxy.CORS.AllowedOrigins)
	envBool("PROXY_TLS_ENABLED", &cfg.Proxy.TLS.Enabled)
	envString("PROXY_TLS_CERT_FILE", &cfg.Proxy.TLS.CertFile)
	envString("PROXY_TLS_KEY_FILE", &cfg.Proxy.TLS.KeyFile)

	// Backend overrides
	envString("BACKEND_BASE_URL", &cfg.Backend.BaseURL)
	envDuration("BACKEND_TIMEOUT", &cfg.Backend.Timeout)
	envString("BACKEND_HEALTH_PATH", &cfg.Backend.HealthPath)
	envString("BACKEND_PROBE_SCHEDULE", &cfg.Backend.ProbeSchedule)
	if val := strings.TrimSpace(os.Getenv(BackendURLEnv)); val != "" {
		cfg.Backend.BaseURL = val
	}

	// Client overrides
	envString("CLIENT_BASE_URL", &cfg.Client.BaseURL)
	envDuration("CLIENT_TIMEOUT", &cfg.Client.Timeout)
	envString("CLIENT_TOKEN_ENV", &cfg.Client.TokenEnv)
	envInt("CLIENT_RETRY_MAX_ATTEMPTS", &cfg.Client.Retry.MaxAttempts)
	envDuration("CLIENT_RETRY_INITIAL_DELAY", &cfg.Client.Retry.InitialDelay)
	envDuration("CLIENT_RETRY_MAX_DELAY", &cfg.Client.Retry.MaxDelay)
	envString("CLIENT_JWT_SIGNING_KEY", &cfg.Client.JWT.SigningKey)
	envString("CLIENT_JWT_SUBJECT", &cfg.Client.JWT.Subject)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

func lookup(name string) (string, bool) {
	val := strings.TrimSpace(os.Getenv(EnvPrefix + name))
	return val, val != ""
}

func envString(name string, dst *string) {
	if val, ok := lookup(name); ok {
		*dst = val
	}
}

func envList(name string, dst *[]string) {
	val, ok := lookup(name)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func envDuration(name string, dst *time.Duration) {
	if val, ok := lookup(name); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envBool(name string, dst *bool) {
	if val, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if val, ok := lookup(name); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if val, ok := lookup(name); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}
