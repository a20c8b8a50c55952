package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/fitplan-go/internal/core/domain"
)

func TestRepl_RunsCommands(t *testing.T) {
	e := newEnv(t)
	input := strings.Join([]string{
		`session set '{"id":"u-9","name":"Kim Lee"}'`,
		"sess?",
		"repl",
		"exit",
	}, "\n")

	r := e.run(input, "repl")
	if r.err != nil {
		t.Fatalf("repl error = %v (stderr %q)", r.err, r.stderr)
	}
	for _, want := range []string{"fitplan> ", "session show", "error: already in interactive mode"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, r.stdout)
		}
	}

	var st domain.SessionState
	e.run("", "-o", "json", "session", "show").decode(t, &st)
	if st.Status != domain.SessionActive || st.Record.String("name") != "Kim Lee" {
		t.Errorf("session after repl = %+v", st)
	}

	data, err := os.ReadFile(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "fitplan", "history"))
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if !strings.HasPrefix(string(data), "session set ") || !strings.HasSuffix(string(data), "exit\n") {
		t.Errorf("history = %q", data)
	}
}

func TestRepl_NoHistory(t *testing.T) {
	e := newEnv(t)
	r := e.run("tabs\n", "repl", "--no-history")
	if r.err != nil {
		t.Fatalf("repl error = %v", r.err)
	}
	if !strings.Contains(r.stdout, domain.RouteCharts) {
		t.Errorf("tabs not printed:\n%s", r.stdout)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "fitplan", "history")); !os.IsNotExist(err) {
		t.Errorf("history written with --no-history: %v", err)
	}
}

func TestCommandPaths(t *testing.T) {
	paths := commandPaths(App().Commands, "")
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	for _, want := range []string{"session", "session show", "route track", "plan generate", "config validate"} {
		if !set[want] {
			t.Errorf("missing %q in %q", want, paths)
		}
	}
	if set["repl"] {
		t.Error("repl should not complete inside itself")
	}
}
