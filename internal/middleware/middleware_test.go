package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	applog "numus/internal/log"
	"numus/internal/middleware/ratelimit"
	"numus/internal/middleware/security"
	"numus/internal/middleware/trace"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimitOnlyLimitsListedMethods(t *testing.T) {
	rl := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 2})
	defer rl.Stop()
	h := rl.Middleware(func(*http.Request) string { return "1.2.3.4" }, http.MethodPost)(ok)

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("GET should never be limited, got %d", rr.Code)
		}
	}

	codes := []int{}
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
	if rl.Hits() != 1 || rl.ActiveClients() != 1 {
		t.Fatalf("unexpected limiter state hits=%d clients=%d", rl.Hits(), rl.ActiveClients())
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(ok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, name := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if rr.Header().Get(name) == "" {
			t.Fatalf("missing header %s", name)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain HTTP")
	}
}

func TestDetector(t *testing.T) {
	d := security.NewDetector()
	cases := []struct {
		path, agent string
		want        bool
	}{
		{"/", "Mozilla/5.0", false},
		{"/reports?category=Moradia", "Mozilla/5.0", false},
		{"/.env", "Mozilla/5.0", true},
		{"/", "sqlmap/1.7", true},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		r.Header.Set("User-Agent", tc.agent)
		if got := d.DetectSuspiciousRequest(r); got != tc.want {
			t.Errorf("%s %q: got %v, want %v", tc.path, tc.agent, got, tc.want)
		}
	}
	if d.SuspiciousRequests() != 2 {
		t.Fatalf("expected 2 suspicious requests, got %d", d.SuspiciousRequests())
	}
}

func TestExtractClientIP(t *testing.T) {
	d := security.NewDetector()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.5")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Fatalf("expected forwarded IP from trusted proxy, got %s", got)
	}

	r.RemoteAddr = "198.51.100.1:1234"
	if got := d.ExtractClientIP(r); got != "198.51.100.1" {
		t.Fatalf("forwarded header from untrusted peer must be ignored, got %s", got)
	}
}

func TestTraceSetsRequestID(t *testing.T) {
	m := trace.NewMiddleware(applog.New(applog.DefaultConfig()), nil)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = applog.RequestID(r.Context())
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rr.Header().Get("X-Request-ID"))
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req_fixed")
	h.ServeHTTP(rr, req)
	if seen != "req_fixed" {
		t.Fatalf("incoming request id should be kept, got %q", seen)
	}

	got := m.GetMetrics()
	if got.TotalRequests != 2 || got.ServerErrors != 2 {
		t.Fatalf("unexpected metrics %+v", got)
	}
}
