package config

import (
	"os"
	"testing"
)

func TestInitializeAndReload(t *testing.T) {
	t.Cleanup(reset)

	path := writeConfig(t, `
backend:
  base_url: "https://first.example.com"
`)

	if err := Initialize(path, false); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := GetConfig().Backend.BaseURL; got != "https://first.example.com" {
		t.Errorf("expected %q, got %q", "https://first.example.com", got)
	}

	var notified string
	OnReload(func(cfg *Config) { notified = cfg.Backend.BaseURL })

	if err := os.WriteFile(path, []byte("backend:\n  base_url: \"https://second.example.com\"\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	cfg, err := ReloadConfig()
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Backend.BaseURL != "https://second.example.com" {
		t.Errorf("expected reloaded backend, got %q", cfg.Backend.BaseURL)
	}
	if GetConfig() != cfg {
		t.Error("expected global config to be replaced")
	}
	if notified != "https://second.example.com" {
		t.Errorf("listener saw %q", notified)
	}
}

func TestReloadConfig_KeepsPreviousOnError(t *testing.T) {
	t.Cleanup(reset)

	path := writeConfig(t, "proxy:\n  listen_address: \"127.0.0.1:8081\"\n")
	if err := Initialize(path, false); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	before := GetConfig()

	if err := os.WriteFile(path, []byte("proxy:\n  listen_address: \"nope\"\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	if _, err := ReloadConfig(); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != before {
		t.Error("expected previous configuration to remain")
	}
}

func TestReloadConfig_WithoutFile(t *testing.T) {
	t.Cleanup(reset)

	if err := Initialize("", false); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := ReloadConfig(); err == nil {
		t.Error("expected error when no file is in use")
	}
}

func TestReloadConfig_ListenerMayRegister(t *testing.T) {
	t.Cleanup(reset)

	path := writeConfig(t, "backend:\n  base_url: \"https://first.example.com\"\n")
	if err := Initialize(path, false); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	var calls []string
	OnReload(func(cfg *Config) {
		calls = append(calls, "outer")
		OnReload(func(*Config) { calls = append(calls, "inner") })
	})

	if _, err := ReloadConfig(); err != nil {
		t.Fatalf("first ReloadConfig() error = %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("calls after first reload = %v, want [outer]", calls)
	}

	if _, err := ReloadConfig(); err != nil {
		t.Fatalf("second ReloadConfig() error = %v", err)
	}
	if len(calls) != 3 || calls[1] != "outer" || calls[2] != "inner" {
		t.Errorf("calls after second reload = %v, want [outer outer inner]", calls)
	}
}
