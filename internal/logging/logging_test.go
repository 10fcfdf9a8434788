package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected string
	}{
		{"debug level", LevelDebug, "debug"},
		{"info level", LevelInfo, "info"},
		{"warn level", LevelWarn, "warn"},
		{"error level", LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.level) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.level))
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG").String() != "DEBUG" {
		t.Error("Expected case-insensitive debug level")
	}
	if ParseLevel("bogus").String() != "INFO" {
		t.Error("Expected unknown levels to fall back to info")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level %s, got %s", LevelInfo, cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("Expected default format %s, got %s", FormatText, cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("Expected default output stdout, got %s", cfg.Output)
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "livemetrics.log")

	logger, err := New(Config{Level: LevelInfo, Format: FormatText, Output: path})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("Expected message in log file, got %q", string(data))
	}
}

func TestErrorEntity(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelDebug, Format: FormatJSON}, &buf)

	logger.ErrorEntity("LiveMetrics unavailable", "host", "42", fmt.Errorf("capture down"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line: %v", err)
	}
	if entry["msg"] != "LiveMetrics unavailable" {
		t.Errorf("Unexpected msg %v", entry["msg"])
	}
	if entry["entity_type"] != "host" || entry["entity_id"] != "42" {
		t.Errorf("Expected entity fields, got %v", entry)
	}
	if entry["error"] != "capture down" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
}

func TestWithEntityAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelInfo, Format: FormatText}, &buf)

	logger.WithComponent("api").WithEntity("vm", "7").Info("hello")

	out := buf.String()
	for _, want := range []string{"component=api", "entity_type=vm", "entity_id=7", "msg=hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelWarn, Format: FormatText}, &buf)

	logger.Info("dropped")
	logger.DebugConfig("dropped too", "host")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("Expected info/debug to be filtered, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Expected warn message, got %q", out)
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewWithWriter(Config{Level: LevelInfo, Format: FormatText}, &buf))

	Info("package level")
	ErrorDatabase("query failed", fmt.Errorf("timeout"), "operation", "select")

	out := buf.String()
	if !strings.Contains(out, "package level") {
		t.Errorf("Expected info through default logger, got %q", out)
	}
	if !strings.Contains(out, "component=database") || !strings.Contains(out, "operation=select") {
		t.Errorf("Expected database fields, got %q", out)
	}
}
