// middleware/security_headers.go
package middleware

import (
	"os"
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the Content-Security-Policy emitted for every
// response. This is a JSON API, so inline script and eval stay off
// unless explicitly enabled.
type SecurityConfig struct {
	AllowedDomains []string
	AllowInlineJS  bool
	AllowEval      bool
}

// NewSecurityConfig builds the config from the environment.
// CSP_ALLOWED_DOMAINS is a comma-separated list of extra connect-src
// origins (the pincode lookup API by default).
func NewSecurityConfig() SecurityConfig {
	domains := []string{"https://api.postalpincode.in"}

	if envDomains := os.Getenv("CSP_ALLOWED_DOMAINS"); envDomains != "" {
		for _, domain := range strings.Split(envDomains, ",") {
			trimmed := strings.TrimSpace(domain)
			if trimmed != "" {
				domains = append(domains, trimmed)
			}
		}
	}

	return SecurityConfig{
		AllowedDomains: domains,
		AllowInlineJS:  false,
		AllowEval:      false,
	}
}

// SecurityHeadersWithConfig sets the standard browser hardening headers
// on every response
func SecurityHeadersWithConfig(config SecurityConfig) echo.MiddlewareFunc {
	csp := buildCSP(config)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'self'",
		"img-src 'self' data: https:",
		"style-src 'self'",
	}

	scriptSrc := "script-src 'self'"
	if config.AllowInlineJS {
		scriptSrc += " 'unsafe-inline'"
	}
	if config.AllowEval {
		scriptSrc += " 'unsafe-eval'"
	}
	csp = append(csp, scriptSrc)

	if len(config.AllowedDomains) > 0 {
		csp = append(csp, "connect-src 'self' "+strings.Join(config.AllowedDomains, " "))
	}

	return strings.Join(csp, "; ")
}
