package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// env is an isolated CLI environment with its own data and config dirs.
type env struct {
	t       *testing.T
	dataDir string
	config  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &env{t: t, dataDir: t.TempDir()}
}

// withConfig writes a YAML config file used by later runs.
func (e *env) withConfig(yaml string) *env {
	e.t.Helper()
	e.config = filepath.Join(e.t.TempDir(), "fitplan.yaml")
	if err := os.WriteFile(e.config, []byte(yaml), 0o600); err != nil {
		e.t.Fatal(err)
	}
	return e
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int { return ExitCode(r.err) }

// run executes the CLI with sqlite storage in the env's data dir.
func (e *env) run(stdin string, args ...string) result {
	e.t.Helper()
	app := App()

	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	full := []string{"fitplan", "--storage", "sqlite", "--data-dir", e.dataDir}
	if e.config != "" {
		full = append(full, "--config", e.config)
	}
	full = append(full, args...)

	err := app.RunContext(context.Background(), full)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// decode parses JSON stdout into v.
func (r result) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(r.stdout), v); err != nil {
		t.Fatalf("decode stdout %q: %v", r.stdout, err)
	}
}

// completionServer answers /completions with the given status and body.
func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completions" || r.Header.Get("Authorization") != "Bearer sk-test-key" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
