package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/storage"
)

func validConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg := Default()
	cfg.Storage.Dir = t.TempDir()
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Engine != storage.EngineBadger {
		t.Errorf("Storage.Engine = %q", cfg.Storage.Engine)
	}
	if cfg.Shell.Addr != DefaultShellAddr {
		t.Errorf("Shell.Addr = %q", cfg.Shell.Addr)
	}
	if cfg.Shell.TrustProxy {
		t.Error("Shell.TrustProxy should default to false")
	}
	if cfg.Plan.SurfaceErrors {
		t.Error("Plan.SurfaceErrors should default to false")
	}
	if cfg.Plan.PromptTemplate == "" {
		t.Error("Plan.PromptTemplate should have a default")
	}
	if cfg.Completion.MaxTokens <= 0 || cfg.Completion.Timeout <= 0 {
		t.Errorf("Completion defaults = %+v", cfg.Completion)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log defaults = %+v", cfg.Log)
	}
}

func TestDefaultDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data/xdg")
	if got := DefaultDataDir(); got != filepath.Join("/data/xdg", "fitplan") {
		t.Errorf("DefaultDataDir() = %q", got)
	}
}

func TestVerify_Valid(t *testing.T) {
	if err := Verify(validConfig(t)); err != nil {
		t.Errorf("Verify(default) error = %v", err)
	}
}

func TestVerify_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"unknown engine", func(c *AppConfig) { c.Storage.Engine = "leveldb" }, "storage.engine"},
		{"redis without addr", func(c *AppConfig) { c.Storage.Engine = storage.EngineRedis; c.Storage.Redis.Addr = "" }, "storage.redis.addr"},
		{"bad gc interval", func(c *AppConfig) { c.Storage.Badger.GCInterval = "often" }, "gc_interval"},
		{"bad gc threshold", func(c *AppConfig) { c.Storage.Badger.GCThreshold = 1.5 }, "gc_threshold"},
		{"short encryption key", func(c *AppConfig) { c.Storage.EncryptionKey = "abcd" }, "encryption_key"},
		{"bad base url", func(c *AppConfig) { c.Completion.BaseURL = "ftp://x" }, "base_url"},
		{"no model", func(c *AppConfig) { c.Completion.Model = "" }, "completion.model"},
		{"zero max tokens", func(c *AppConfig) { c.Completion.MaxTokens = 0 }, "max_tokens"},
		{"zero timeout", func(c *AppConfig) { c.Completion.Timeout = 0 }, "completion.timeout"},
		{"bad template", func(c *AppConfig) { c.Plan.PromptTemplate = "{{.Goal" }, "prompt_template"},
		{"bad shell addr", func(c *AppConfig) { c.Shell.Addr = "7420" }, "shell.addr"},
		{"missing ca file", func(c *AppConfig) { c.Completion.CAFile = "/nonexistent/ca.pem" }, "completion.ca_file"},
		{"long socket", func(c *AppConfig) { c.Shell.Socket = "/" + strings.Repeat("s", 120) }, "shell.socket"},
		{"negative rate", func(c *AppConfig) { c.Shell.RateLimit = -1 }, "rate_limit"},
		{"bad log level", func(c *AppConfig) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *AppConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() should fail")
			}
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("error %v is not ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error()+unwrapAll(err), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func unwrapAll(err error) string {
	var b strings.Builder
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		b.WriteString(e.Error())
	}
	return b.String()
}

func TestVerify_MemoryNeedsNoDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.Engine = storage.EngineMemory
	cfg.Storage.Dir = ""
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Completion.APIKey = "sk-abcdefghijklmnop"
	cfg.Storage.EncryptionKey = strings.Repeat("ab", 32)
	cfg.Storage.Redis.Password = "pw"

	s := Sanitize(cfg)

	if cfg.Completion.APIKey != "sk-abcdefghijklmnop" {
		t.Error("Sanitize() modified the original")
	}
	if s.Completion.APIKey == cfg.Completion.APIKey || !strings.HasPrefix(s.Completion.APIKey, "sk-") {
		t.Errorf("APIKey = %q", s.Completion.APIKey)
	}
	if strings.Contains(s.Storage.EncryptionKey, strings.Repeat("ab", 8)) {
		t.Errorf("EncryptionKey not masked: %q", s.Storage.EncryptionKey)
	}
	if s.Storage.Redis.Password != "****" {
		t.Errorf("Redis.Password = %q", s.Storage.Redis.Password)
	}
	if Sanitize(Default()).Completion.APIKey != "" {
		t.Error("empty secret should stay empty")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitplan.yaml")
	content := `
storage:
  engine: sqlite
  dir: /tmp/fitplan-test
completion:
  model: test-model
  timeout: 3s
plan:
  surface_errors: true
  prompt_template: "Plan: {{.Goal}}"
shell:
  addr: 127.0.0.1:9000
  trust_proxy: true
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FITPLAN_COMPLETION__API_KEY", "sk-from-env")

	cfg, err := Load(path, map[string]any{"log.level": "warn"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Engine != storage.EngineSQLite || cfg.Storage.Dir != "/tmp/fitplan-test" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Completion.Model != "test-model" || cfg.Completion.Timeout != 3*time.Second {
		t.Errorf("Completion = %+v", cfg.Completion)
	}
	if cfg.Completion.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want env value", cfg.Completion.APIKey)
	}
	if cfg.Completion.MaxTokens != 500 {
		t.Errorf("MaxTokens default lost: %d", cfg.Completion.MaxTokens)
	}
	if !cfg.Plan.SurfaceErrors || cfg.Plan.PromptTemplate != "Plan: {{.Goal}}" {
		t.Errorf("Plan = %+v", cfg.Plan)
	}
	if cfg.Shell.Addr != "127.0.0.1:9000" || !cfg.Shell.Metrics || !cfg.Shell.TrustProxy {
		t.Errorf("Shell = %+v", cfg.Shell)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want flag value", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}
