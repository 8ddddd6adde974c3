// Package auth supplies bearer tokens to the client library.
//
// A TokenSource is asked for a token before every request. An empty token
// means the caller is unauthenticated and no Authorization header is sent.
package auth

import (
	"context"
	"os"
	"strings"
)

// TokenSource yields the current session's access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// None returns a source for unauthenticated callers.
func None() TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return "", nil })
}

// Static returns a source that always yields token.
func Static(token string) TokenSource {
	token = strings.TrimSpace(token)
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

// Env returns a source that reads the named environment variable on every
// call, so a refreshed token is picked up without restarting.
func Env(name string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) {
		return strings.TrimSpace(os.Getenv(name)), nil
	})
}

// BearerHeader formats token as an Authorization header value.
func BearerHeader(token string) string {
	return "Bearer " + token
}
