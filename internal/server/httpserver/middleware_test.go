package httpserver

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler, mw("a"), mw("b"), mw("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	}))

	t.Run("generates request ID when not provided", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		id := rec.Header().Get(RequestIDHeader)
		if !strings.HasPrefix(id, "req-") || len(id) != len("req-")+26 {
			t.Errorf("request ID = %q, want req-<ulid>", id)
		}
		if seen != id {
			t.Errorf("context ID = %q, header = %q", seen, id)
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-id-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "existing-id-123" {
			t.Errorf("request ID = %q", got)
		}
	})
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, 2, false)(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest("GET", "/v1/tabs", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("over-budget status = %d, want 429", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Error-Code") != domain.ErrInternal.Code {
		t.Errorf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestAccessLog_CountsByPattern(t *testing.T) {
	reg := metric.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle("GET /v1/items/{id}", okHandler)

	handler := AccessLog(logger.Discard(), reg)(mux)
	for _, path := range []string{"/v1/items/1", "/v1/items/2", "/nope"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(reg.RequestsTotal.WithLabelValues("GET", "GET /v1/items/{id}", "200")); got != 2 {
		t.Errorf("pattern count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.RequestsTotal.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched count = %v, want 1", got)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:8081"})(okHandler)

	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", "GET", "http://localhost:8081", false, http.StatusOK, "http://localhost:8081"},
		{"other origin", "GET", "http://evil.example", false, http.StatusOK, ""},
		{"preflight", "OPTIONS", "http://localhost:8081", true, http.StatusNoContent, "http://localhost:8081"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/tabs", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("allow origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestRateLimit_IgnoresForwardedUnlessTrusted(t *testing.T) {
	send := func(h http.Handler, xff string) int {
		req := httptest.NewRequest("GET", "/v1/tabs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Rotating the header must not buy a fresh bucket.
	direct := RateLimit(1, 1, false)(okHandler)
	if code := send(direct, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("first status = %d", code)
	}
	if code := send(direct, "203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("spoofed header status = %d, want 429", code)
	}

	proxied := RateLimit(1, 1, true)(okHandler)
	if code := send(proxied, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("first status = %d", code)
	}
	if code := send(proxied, "203.0.113.2"); code != http.StatusOK {
		t.Errorf("second forwarded client status = %d, want 200", code)
	}
}

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	lim := newIPLimiter(1, 2, time.Minute, clock)

	for i := 0; i < 100; i++ {
		lim.allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	if n := lim.size(); n != 100 {
		t.Fatalf("size = %d, want 100", n)
	}

	now = now.Add(30 * time.Second)
	lim.allow("10.9.9.9")

	now = now.Add(40 * time.Second)
	lim.allow("10.9.9.9")
	if n := lim.size(); n != 1 {
		t.Errorf("size after idle sweep = %d, want 1", n)
	}
}

func TestIPLimiter_IdleCoversRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := newIPLimiter(0.01, 5, time.Second, func() time.Time { return now })
	if lim.idle < 500*time.Second {
		t.Errorf("idle = %v, want at least the 500s refill", lim.idle)
	}

	for i := 0; i < 5; i++ {
		if !lim.allow("10.0.0.1") {
			t.Fatalf("request %d denied", i)
		}
	}
	now = now.Add(2 * time.Second)
	if lim.allow("10.0.0.1") {
		t.Error("drained bucket refilled by eviction")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		trust  bool
		want   string
	}{
		{"remote addr", "192.0.2.1:5555", "", "", false, "192.0.2.1"},
		{"ipv6 remote", "[::1]:8080", "", "", false, "::1"},
		{"forwarded for", "127.0.0.1:1", "203.0.113.9, 10.0.0.1", "", true, "203.0.113.9"},
		{"real ip", "127.0.0.1:1", "", "198.51.100.7", true, "198.51.100.7"},
		{"forwarded untrusted", "127.0.0.1:1", "203.0.113.9", "", false, "127.0.0.1"},
		{"real ip untrusted", "127.0.0.1:1", "", "198.51.100.7", false, "127.0.0.1"},
		{"no port", "192.0.2.1", "", "", false, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getClientIP(req, tt.trust); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
