// Package config loads, validates and hot-reloads flashgate configuration.
//
// Sources are applied in order, later ones winning:
//
//  1. built-in defaults (DefaultConfig)
//  2. the YAML file given with --config (optional at the default location)
//  3. FLASHGATE_SECTION_FIELD environment variables, which may come from a
//     .env file loaded with LoadDotEnv
//  4. BACKEND_API_URL for the backend base URL
//
// The result is validated with go-playground/validator struct tags plus a
// few cross-field checks; every failure is reported as a FieldError inside a
// single ValidationError.
//
// # Example Configuration
//
//	proxy:
//	  listen_address: "0.0.0.0:8080"
//	  watch_config: true
//	backend:
//	  base_url: "https://study-sharper-backend-production.up.railway.app"
//	  timeout: "60s"
//	client:
//	  base_url: "http://127.0.0.1:8080"
//	  retry:
//	    max_attempts: 3
//	    initial_delay: "500ms"
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// The process-wide configuration is managed with Initialize, GetConfig and
// ReloadConfig. A Watcher calls ReloadConfig when the file changes, and
// OnReload listeners apply the parts that can change at runtime.
package config
