package logger

import (
	"testing"

	"github.com/launchbase/api-template/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   config.Environment
		debug bool
	}{
		{"development", config.EnvDevelopment, false},
		{"development debug", config.EnvDevelopment, true},
		{"staging", config.EnvStaging, false},
		{"production", config.EnvProduction, false},
		{"production debug", config.EnvProduction, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := New(tt.env, tt.debug)
			if err != nil {
				t.Fatalf("New(%q, %v) error: %v", tt.env, tt.debug, err)
			}
			if l == nil {
				t.Fatal("Expected non-nil logger")
			}
		})
	}
}

func TestSync_NilLogger(t *testing.T) {
	t.Parallel()

	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) error: %v", err)
	}
}

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain path", "/api/v1/health", "/api/v1/health"},
		{"control characters stripped", "/api\x00/v1\x1b[31m", "/api/v1[31m"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.in); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_Truncates(t *testing.T) {
	t.Parallel()

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := SanitizeString(string(long), 100)
	if len(got) != 103 { // 100 chars + "..."
		t.Errorf("Expected truncated length 103, got %d", len(got))
	}
}
