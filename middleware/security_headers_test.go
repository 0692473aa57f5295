package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeadersWithConfig(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersWithConfig(SecurityConfig{
		AllowedDomains: []string{"https://api.postalpincode.in"},
	})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := rec.Header()
	if got := h.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if got := h.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}

	csp := h.Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'self'") {
		t.Fatalf("CSP missing script-src: %q", csp)
	}
	if strings.Contains(csp, "unsafe-inline'; ") && strings.Contains(csp, "script-src 'self' 'unsafe-inline'") {
		t.Fatalf("inline script must be off by default: %q", csp)
	}
	if !strings.Contains(csp, "connect-src 'self' https://api.postalpincode.in") {
		t.Fatalf("CSP missing allowed domain: %q", csp)
	}
}

func TestNewSecurityConfigReadsEnvDomains(t *testing.T) {
	t.Setenv("CSP_ALLOWED_DOMAINS", "https://cdn.example.com, https://img.example.com")

	config := NewSecurityConfig()

	want := map[string]bool{
		"https://api.postalpincode.in": false,
		"https://cdn.example.com":      false,
		"https://img.example.com":      false,
	}
	for _, domain := range config.AllowedDomains {
		if _, ok := want[domain]; !ok {
			t.Fatalf("unexpected domain %q", domain)
		}
		want[domain] = true
	}
	for domain, seen := range want {
		if !seen {
			t.Fatalf("missing domain %q", domain)
		}
	}

	if config.AllowInlineJS || config.AllowEval {
		t.Fatal("inline JS and eval must default off")
	}
}

func TestBuildCSPWithInlineAndEval(t *testing.T) {
	csp := buildCSP(SecurityConfig{AllowInlineJS: true, AllowEval: true})
	if !strings.Contains(csp, "script-src 'self' 'unsafe-inline' 'unsafe-eval'") {
		t.Fatalf("expected relaxed script-src, got %q", csp)
	}
}
