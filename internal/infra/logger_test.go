package infra

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	logger := newLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("chain_id", "1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if rec["msg"] != "shown" || rec["chain_id"] != "1" || rec["app"] != AppName {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewLogger_Text(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	newLogger(cfg, &buf).Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestNewLogger_AppName(t *testing.T) {
	cfg := &Config{}
	cfg.App.Name = "node-7"
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	newLogger(cfg, &buf).Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if rec["app"] != "node-7" {
		t.Errorf("expected app=node-7, got %v", rec["app"])
	}
}
