package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/config"
	"studysharper/flashgate/pkg/server"
	"studysharper/flashgate/pkg/telemetry/logging"
	"studysharper/flashgate/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	backendURL    string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flashcard proxy",
	Long: `Start the flashcard proxy with the specified configuration.

The proxy listens on the configured address and forwards flashcard requests
to the backend, relaying the caller's Authorization header.

Examples:
  # Start with default config
  flashgate serve

  # Start with custom config and reload it on change
  flashgate serve --config /etc/flashgate/flashgate.yaml --watch

  # Override listen address and backend
  flashgate serve --listen 0.0.0.0:3000 --backend http://localhost:8000

  # Validate config without starting the proxy
  flashgate serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.backendURL, "backend", "", "override backend base URL")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload the config file when it changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the proxy")
}

// applyServeOverrides returns a copy of cfg with the serve flags applied.
func applyServeOverrides(cfg *config.Config) *config.Config {
	c := *cfg
	if serveFlags.listenAddress != "" {
		c.Proxy.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		c.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.backendURL != "" {
		c.Backend.BaseURL = serveFlags.backendURL
	}
	if verbose {
		c.Telemetry.Logging.Level = "debug"
	}
	return &c
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := applyServeOverrides(config.GetConfig())
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("config", err.Error())
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		fmt.Fprintf(out, "  listen:  %s\n", cfg.Proxy.ListenAddress)
		fmt.Fprintf(out, "  backend: %s\n", cfg.Backend.BaseURL)
		return nil
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	srv, err := server.New(cfg, server.WithLogger(logger), server.WithTracer(tracer))
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	config.OnReload(func(c *config.Config) {
		if err := srv.ApplyConfig(applyServeOverrides(c)); err != nil {
			logger.Error("failed to apply reloaded config", "error", err)
		}
	})

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if serveFlags.watch || cfg.Proxy.WatchConfig {
		if _, err := os.Stat(cfgFile); err != nil {
			logger.Warn("config watch disabled: file not found", "path", cfgFile)
		} else {
			watcher := config.NewWatcher(cfgFile, 0, logger.Logger, nil)
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logger.Error("config watcher failed", "error", err)
				}
			}()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		return cli.NewCommandError("serve", fmt.Errorf("server failed to start: %w", err))
	}

	base := srv.Scheme() + "://" + srv.Addr().String()
	fmt.Fprintf(out, "✓ Proxy listening on %s\n", base)
	fmt.Fprintf(out, "✓ Backend: %s\n", srv.Forwarder().BaseURL())
	fmt.Fprintf(out, "✓ Health endpoint: %s/health\n", base)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s%s\n", base, cfg.Telemetry.Metrics.Path)
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Proxy stopped")
	return nil
}
