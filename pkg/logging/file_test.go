package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "deepdiff-logging-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "run.log")
}

// TestFileLoggerJSON verifies JSON records carry level, message, and
// fields
func TestFileLoggerJSON(t *testing.T) {
	path := tempLogPath(t)
	logger, err := NewFileLogger(FileConfig{Path: path, Format: FormatJSON, Level: DebugLevel})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info(context.Background(), "comparison started", Fields{"run_id": "abc", "paths": 3})
	if err := logger.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &record); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if record["message"] != "comparison started" {
		t.Errorf("message = %v", record["message"])
	}
	if record["run_id"] != "abc" {
		t.Errorf("run_id = %v, want abc", record["run_id"])
	}
}

// TestFileLoggerLevelFilter verifies records below the configured level
// are dropped
func TestFileLoggerLevelFilter(t *testing.T) {
	path := tempLogPath(t)
	logger, err := NewFileLogger(FileConfig{Path: path, Format: FormatText, Level: WarnLevel})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	ctx := context.Background()
	logger.Debug(ctx, "dropped debug", nil)
	logger.Info(ctx, "dropped info", nil)
	logger.Warn(ctx, "kept warn", nil)
	logger.Error(ctx, "kept error", nil, nil)
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "dropped") {
		t.Error("records below the level should be dropped")
	}
	if !strings.Contains(content, "kept warn") || !strings.Contains(content, "kept error") {
		t.Error("warn and error records should be written")
	}
}

// TestFileLoggerWithFields verifies field inheritance across derived
// loggers
func TestFileLoggerWithFields(t *testing.T) {
	path := tempLogPath(t)
	logger, err := NewFileLogger(FileConfig{Path: path, Format: FormatJSON, Level: InfoLevel})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	child := logger.WithFields(Fields{"run_id": "xyz"})
	child.Info(context.Background(), "stage complete", Fields{"stage": "content"})
	logger.Close()

	data, _ := os.ReadFile(path)
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &record); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if record["run_id"] != "xyz" || record["stage"] != "content" {
		t.Errorf("derived logger lost fields: %v", record)
	}
}

// TestFileLoggerErrorField verifies the error is attached as a field
func TestFileLoggerErrorField(t *testing.T) {
	path := tempLogPath(t)
	logger, err := NewFileLogger(FileConfig{Path: path, Format: FormatJSON, Level: InfoLevel})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Error(context.Background(), "scan failed", os.ErrPermission, nil)
	logger.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "permission denied") {
		t.Errorf("error detail missing from record: %s", data)
	}
}

// TestFileLoggerRotation verifies the size-based rollover to .1
func TestFileLoggerRotation(t *testing.T) {
	path := tempLogPath(t)
	logger, err := NewFileLogger(FileConfig{Path: path, Format: FormatText, Level: InfoLevel, MaxSize: 256})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a reasonably long log message to force rotation", nil)
	}
	logger.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated file missing: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("active file missing after rotation: %v", err)
	}
}

// TestParseLevel verifies level name mapping
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
