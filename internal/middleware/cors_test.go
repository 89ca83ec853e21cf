package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchbase/api-template/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func resolvedWith(origins []string) config.ResolvedCORS {
	return config.ResolvedCORS{
		Origins:          origins,
		AllowCredentials: true,
		Methods:          []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		Headers:          []string{"Content-Type", "Authorization"},
		MaxAge:           86400,
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS(resolvedWith([]string{"https://app.com"}))(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://app.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.com" {
		t.Errorf("Expected Access-Control-Allow-Origin 'https://app.com', got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected Access-Control-Allow-Credentials 'true', got %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS(resolvedWith([]string{"https://app.com"}))(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no Access-Control-Allow-Origin for disallowed origin, got %q", got)
	}
	// The request itself still reaches the handler; the browser enforces CORS.
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestCORS_EmptyOriginListFailsClosed(t *testing.T) {
	t.Parallel()

	// Wildcard in production resolves to an empty list; rs/cors must not
	// reinterpret that as allow-all.
	handler := CORS(resolvedWith([]string{}))(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://anyone.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no Access-Control-Allow-Origin with zero configured origins, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	handler := CORS(resolvedWith([]string{"https://app.com"}))(okHandler())

	req := httptest.NewRequest("OPTIONS", "/api/v1/things", nil)
	req.Header.Set("Origin", "https://app.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.com" {
		t.Errorf("Expected Access-Control-Allow-Origin 'https://app.com', got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Expected Access-Control-Max-Age '86400', got %q", got)
	}
}

func TestCORS_WildcardDevelopment(t *testing.T) {
	t.Parallel()

	resolved := resolvedWith([]string{"*"})
	resolved.AllowCredentials = false
	handler := CORS(resolved)(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got %q", got)
	}
}
