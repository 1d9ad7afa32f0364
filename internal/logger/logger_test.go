package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"none", LevelNone},
		{"off", LevelNone},
		{"invalid", LevelInfo}, // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelTrace, "TRACE"},
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, "NONE"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.level.String(); result != tt.expected {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, result, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, err := New(LevelInfo, logPath, "test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("test message")
	logger.Debug("should not appear")
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	contentStr := string(content)

	if !strings.Contains(contentStr, "test message") {
		t.Errorf("Log file missing info message")
	}
	if strings.Contains(contentStr, "should not appear") {
		t.Errorf("Log file contains debug message when level is INFO")
	}
	if !strings.Contains(contentStr, "[test]") {
		t.Errorf("Log file missing prefix")
	}
}

func TestLoggerWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelInfo, &buf, "parent")

	logger.WithPrefix("child").Info("test message")

	if !strings.Contains(buf.String(), "[parent:child] test message") {
		t.Errorf("missing combined prefix, got: %s", buf.String())
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelDebug, &buf, "")

	if logger.Enabled(LevelTrace) {
		t.Error("trace should be disabled at debug level")
	}
	logger.Trace("step1")

	logger.SetLevel(LevelTrace)
	if !logger.Enabled(LevelTrace) {
		t.Error("trace should be enabled at trace level")
	}
	logger.Trace("step2")

	out := buf.String()
	if strings.Contains(out, "step1") {
		t.Errorf("step1 should not appear, got: %s", out)
	}
	if !strings.Contains(out, "[TRACE] step2") {
		t.Errorf("step2 should appear, got: %s", out)
	}
}

func TestLoggerDisabled(t *testing.T) {
	logger, err := New(LevelNone, "", "test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.Enabled(LevelError) {
		t.Error("disabled logger reports enabled")
	}

	// These should not panic or error
	logger.Trace("trace")
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
}

func TestGlobalLogger(t *testing.T) {
	if Global() == nil {
		t.Errorf("Global() returned nil")
	}

	// Should not panic
	Trace("trace")
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(LevelDebug, &buf, "")

	slogger := slog.New(NewSlogHandler(l)).With("component", "web")
	slogger.Info("request", "path", "/api/compute")
	slogger.Log(context.Background(), LevelTraceSlog, "hidden")

	out := buf.String()
	if !strings.Contains(out, "request component=web path=/api/compute") {
		t.Errorf("unexpected slog output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("trace record should be filtered at debug level: %s", out)
	}
}

func TestNewStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(LevelInfo, &buf, "http")

	NewStdLogger(l, slog.LevelError).Print("tls handshake error")

	if !strings.Contains(buf.String(), "[ERROR] [http] tls handshake error") {
		t.Errorf("unexpected std logger output: %s", buf.String())
	}
}
