package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards the buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_Lifecycle(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"stop clears line", (*Spinner).Stop, "\r\033[K"},
		{"success", func(s *Spinner) { s.Success("plan ready") }, "\r✓ plan ready\n"},
		{"fail", func(s *Spinner) { s.Fail("request failed") }, "\r✗ request failed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := NewSpinner(&buf, "Generating plan")
			s.interval = 5 * time.Millisecond
			s.Start()
			time.Sleep(20 * time.Millisecond)
			tt.stop(s)

			out := buf.String()
			if !strings.Contains(out, "Generating plan") {
				t.Errorf("no frame rendered: %q", out)
			}
			if !strings.HasSuffix(out, tt.want) {
				t.Errorf("output ends with %q, want suffix %q", out, tt.want)
			}
		})
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "x")
	s.Start()
	s.Success("done")
	s.Stop()
	s.Fail("late")

	if strings.Count(buf.String(), "done") != 1 || strings.Contains(buf.String(), "late") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf syncBuffer
	NewSpinner(&buf, "x").Stop()
	if buf.String() != "\r\033[K" {
		t.Errorf("output = %q", buf.String())
	}
}
