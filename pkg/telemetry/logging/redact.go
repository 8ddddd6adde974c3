package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "***"

var (
	bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	jwtPattern    = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
)

// sensitiveKeys are attribute keys whose values are never logged.
var sensitiveKeys = []string{
	"authorization", "token", "secret", "signing_key", "password", "cookie",
}

// redactAttr is a slog ReplaceAttr hook that hides credentials.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindString {
		if s := RedactString(a.Value.String()); s != a.Value.String() {
			return slog.String(a.Key, s)
		}
	}
	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// RedactString masks bearer tokens and JWTs inside s.
func RedactString(s string) string {
	if s == "" {
		return s
	}
	s = bearerPattern.ReplaceAllString(s, "Bearer "+redacted)
	return jwtPattern.ReplaceAllString(s, redacted)
}
