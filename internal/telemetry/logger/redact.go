package logger

import (
	"log/slog"
	"strings"
)

// Value prefixes of credentials that are masked wherever they appear.
var sensitiveValuePrefixes = []string{
	"sk-",     // completion API keys
	"Bearer ", // authorization header values
}

// Key fragments whose string values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"api_key",
	"apikey",
	"encryption_key",
	"credential",
	"authorization",
	"bearer",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(v, prefix) {
				return slog.String(a.Key, maskValue(v, prefix))
			}
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskValue keeps the prefix and the last four characters.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 8 {
		return prefix + "***"
	}
	return prefix + "***" + body[len(body)-4:]
}

// RedactString masks value if it looks like a credential.
func RedactString(value string) string {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	return value
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}
