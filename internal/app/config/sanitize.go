package config

import "strings"

// Sanitize returns a copy of cfg with secrets masked, for printing and logging.
func Sanitize(cfg *AppConfig) *AppConfig {
	out := *cfg
	out.Storage.EncryptionKey = maskSecret(out.Storage.EncryptionKey)
	out.Storage.Redis.Password = maskSecret(out.Storage.Redis.Password)
	out.Completion.APIKey = maskSecret(out.Completion.APIKey)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:3] + strings.Repeat("*", len(s)-6) + s[len(s)-3:]
}
