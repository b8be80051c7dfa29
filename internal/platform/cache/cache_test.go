package cache

import (
	"strings"
	"testing"
	"time"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
		{"wrong-scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKey(t *testing.T) {
	a := Key("v1", "", "what is oligopoly")
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("Key() = %q, want prefix %q", a, keyPrefix)
	}
	if len(a) != len(keyPrefix)+64 {
		t.Errorf("Key() length = %d, want prefix plus 64 hex chars", len(a))
	}
	if a != Key("v1", "", "what is oligopoly") {
		t.Error("Key() should be deterministic")
	}

	distinct := []string{
		Key("v2", "", "what is oligopoly"),
		Key("v1", "vid", "what is oligopoly"),
		Key("v1", "", "what is a cartel"),
		Key("v1", "what is oligopoly", ""),
	}
	for _, k := range distinct {
		if k == a {
			t.Errorf("Key() collision for %q", k)
		}
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key() should separate parts")
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := New(ctx, "redis://localhost:59999", time.Minute)
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}
