package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DebouncesReloads(t *testing.T) {
	path := writeConfig(t, "proxy:\n  listen_address: \"127.0.0.1:8080\"\n")

	var reloads atomic.Int32
	w := NewWatcher(path, 50*time.Millisecond, nil, func() error {
		reloads.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("proxy:\n  listen_address: \"127.0.0.1:9090\"\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := reloads.Load(); got != 1 {
		t.Errorf("expected exactly 1 reload, got %d", got)
	}
}
