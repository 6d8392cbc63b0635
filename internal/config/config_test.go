package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PREP_API_URL", "PREP_HTTP_TIMEOUT", "PREP_SESSION_STORE", "PREP_FETCH_CONCURRENCY", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIBaseURL != "http://localhost:8001/api" {
		t.Errorf("APIBaseURL = %v, want default", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.SessionStore != "file" {
		t.Errorf("SessionStore = %v, want file", cfg.SessionStore)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency = %v, want 4", cfg.FetchConcurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PREP_API_URL", "https://prep.example.edu/api/")
	t.Setenv("PREP_HTTP_TIMEOUT", "5s")
	t.Setenv("PREP_SESSION_STORE", "SQLite")
	t.Setenv("PREP_FETCH_CONCURRENCY", "not-a-number")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	if cfg.APIBaseURL != "https://prep.example.edu/api" {
		t.Errorf("APIBaseURL = %v, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
	if cfg.SessionStore != "sqlite" {
		t.Errorf("SessionStore = %v, want sqlite", cfg.SessionStore)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency = %v, want fallback 4", cfg.FetchConcurrency)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "office@school.edu", want: []string{"office@school.edu"}},
		{name: "spaces and blanks", value: " a@x.edu , ,b@x.edu", want: []string{"a@x.edu", "b@x.edu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.value)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
