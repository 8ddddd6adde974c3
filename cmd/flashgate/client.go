package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/auth"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/client"
	"studysharper/flashgate/pkg/config"
	"studysharper/flashgate/pkg/retry"
	"studysharper/flashgate/pkg/telemetry/logging"
)

// newClient builds a flashcard client from the loaded configuration.
func newClient() (*client.Client, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, cli.NewConfigError("config", "configuration not loaded")
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	tokens, err := tokenSource(cfg.Client)
	if err != nil {
		return nil, cli.NewConfigError("client.jwt", err.Error())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c, err := client.New(cfg.Client.BaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout, Jar: jar}),
		client.WithTokenSource(tokens),
		client.WithRetryPolicy(retryPolicy(cfg.Client.Retry)),
		client.WithLogger(logger.Logger),
	)
	if err != nil {
		return nil, cli.NewConfigError("client.base_url", err.Error())
	}
	return c, nil
}

// tokenSource mints tokens when a signing key is configured and otherwise
// reads a bearer token from the configured environment variable.
func tokenSource(cfg config.ClientConfig) (auth.TokenSource, error) {
	if cfg.JWT.SigningKey != "" {
		src, err := auth.NewJWTSource(auth.JWTConfig{
			SigningKey: cfg.JWT.SigningKey,
			Subject:    cfg.JWT.Subject,
			Issuer:     cfg.JWT.Issuer,
			Audience:   cfg.JWT.Audience,
			TTL:        cfg.JWT.TTL,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	if cfg.TokenEnv != "" {
		return auth.Env(cfg.TokenEnv), nil
	}
	return auth.None(), nil
}

func retryPolicy(cfg config.RetryConfig) retry.Policy {
	p := retry.Policy{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.InitialDelay,
		MaxDelay:     cfg.MaxDelay,
		Multiplier:   cfg.Multiplier,
		Jitter:       cfg.Jitter,
	}
	if cfg.TransientOnly {
		p.RetryIf = retry.Transient
	}
	return p
}

// resultError converts a failed retry result into a command error.
func resultError[T any](command string, res retry.Result[T]) error {
	if res.OK {
		return nil
	}
	msg := res.Error
	if res.Attempts > 1 {
		msg = fmt.Sprintf("%s (after %d attempts)", msg, res.Attempts)
	}
	if res.Err != nil {
		return cli.NewCommandError(command, fmt.Errorf("%s: %w", msg, res.Err))
	}
	return cli.NewCommandError(command, errors.New(msg))
}

// message is a plain text result.
type message string

func (m message) Text() string { return string(m) }

// render writes data as JSON, or text as text.
func render(cmd *cobra.Command, data any, text cli.Texter) error {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), text)
}

// withTimeout bounds ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
