package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is the lifetime of minted access tokens.
	DefaultTokenTTL = time.Hour

	// refreshSkew is how long before expiry a cached token is replaced.
	refreshSkew = 30 * time.Second
)

// ErrMissingSigningKey is returned when a JWTSource has no key.
var ErrMissingSigningKey = errors.New("auth: signing key not set")

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// SigningKey is the HS256 secret shared with the backend.
	SigningKey string

	// Subject identifies the user the tokens are minted for.
	Subject string

	// Issuer is written to the iss claim when set.
	Issuer string

	// Audience is written to the aud claim when set.
	Audience string

	// TTL is the token lifetime. Defaults to DefaultTokenTTL.
	TTL time.Duration
}

// JWTSource mints short-lived HS256 access tokens and caches each one until
// it is close to expiry.
type JWTSource struct {
	cfg JWTConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSource creates a JWTSource.
func NewJWTSource(cfg JWTConfig) (*JWTSource, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.Subject == "" {
		return nil, errors.New("auth: subject not set")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &JWTSource{cfg: cfg, now: time.Now}, nil
}

// Token returns the cached token, minting a new one when the cached token
// expires within the refresh window.
func (s *JWTSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(refreshSkew).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Subject:   s.cfg.Subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SigningKey))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.token = signed
	s.expires = expires
	return signed, nil
}

// ParseToken verifies a token minted with key and returns its subject.
func ParseToken(tokenString, key string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(key), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token")
	}
	return claims.Subject, nil
}
