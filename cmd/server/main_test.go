package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/p-n-ai/pai-study/internal/platform/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
		logger.Debug("hidden")
		logger.Info("shown", "topic", "cartel")

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("output %q is not a single JSON line: %v", buf.String(), err)
		}
		if line["msg"] != "shown" || line["topic"] != "cartel" {
			t.Errorf("logged %v, want msg=shown topic=cartel", line)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)
		logger.Debug("details")

		if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "msg=details") {
			t.Errorf("text output = %q, want debug record", buf.String())
		}
	})
}

func TestLoadKnowledge(t *testing.T) {
	t.Run("embedded content", func(t *testing.T) {
		store, err := loadKnowledge(config.ContentConfig{})
		if err != nil {
			t.Fatalf("loadKnowledge() error = %v", err)
		}
		if store.Stats().Topics == 0 {
			t.Error("embedded content has no topics")
		}
	})

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		doc := "topics:\n- key: tariff\n  definition: A tax on imports.\n  keywords: [tariff]\n"
		if err := os.WriteFile(filepath.Join(dir, "trade.topics.yaml"), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}

		store, err := loadKnowledge(config.ContentConfig{Path: dir})
		if err != nil {
			t.Fatalf("loadKnowledge() error = %v", err)
		}
		if _, ok := store.GetTopic("tariff"); !ok {
			t.Error("topic tariff not loaded from directory")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := loadKnowledge(config.ContentConfig{Path: filepath.Join(t.TempDir(), "absent")}); err == nil {
			t.Error("loadKnowledge() should fail for a missing directory")
		}
	})
}
