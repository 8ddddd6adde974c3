package config

import (
	"fmt"
	"slices"
	"sync"
)

var (
	// globalConfig holds the process-wide configuration.
	globalConfig *Config

	// globalPath is the file globalConfig was loaded from ("" for defaults).
	globalPath string

	// configMutex protects globalConfig, globalPath and listeners.
	configMutex sync.RWMutex

	// listeners are notified after every successful reload.
	listeners []func(*Config)
)

// Initialize loads configuration from path with environment overrides and
// stores it as the process-wide configuration. When optional is true a
// missing file yields the defaults.
func Initialize(path string, optional bool) error {
	cfg, err := load(path, optional)
	if err != nil {
		return err
	}

	configMutex.Lock()
	globalConfig = cfg
	globalPath = path
	configMutex.Unlock()

	return nil
}

// GetConfig returns the process-wide configuration, or nil before
// Initialize succeeds.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Intended for tests and
// for commands that build their configuration from flags.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// OnReload registers fn to run after every successful ReloadConfig.
func OnReload(fn func(*Config)) {
	configMutex.Lock()
	defer configMutex.Unlock()
	listeners = append(listeners, fn)
}

// ReloadConfig reloads the configuration from the path it was initialized
// with. On failure the existing configuration remains in place.
func ReloadConfig() (*Config, error) {
	configMutex.RLock()
	path := globalPath
	configMutex.RUnlock()

	if path == "" {
		return nil, fmt.Errorf("failed to reload configuration: no configuration file in use")
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	fns := slices.Clone(listeners)
	configMutex.Unlock()

	for _, fn := range fns {
		fn(cfg)
	}

	return cfg, nil
}

// reset clears the process-wide state. Tests only.
func reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
	globalPath = ""
	listeners = nil
}
