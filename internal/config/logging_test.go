package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	slogctx "github.com/veqryn/slog-context"
)

func TestLog(t *testing.T) {
	// Just verify it doesn't panic
	Log(validSettings())
}

func TestLogWithLogger_StdioTransport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogWithLogger(validSettings(), logger)

	output := buf.String()
	if !strings.Contains(output, "transport") {
		t.Error("Expected 'transport' in log output")
	}
	// stdio transport should not log host/port
	if strings.Contains(output, "Config: host") {
		t.Error("Expected no host in log output for stdio transport")
	}
	for _, key := range []string{"docs.data_dir", "docs.package", "storage.path", "log.format"} {
		if !strings.Contains(output, key) {
			t.Errorf("Expected %q in log output", key)
		}
	}
}

func TestLogWithLogger_SSETransport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := validSettings()
	s.Transport = TransportSSE
	s.Host = "localhost"
	s.Port = 8080
	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "Config: host") {
		t.Error("Expected host in log output for SSE transport")
	}
	if !strings.Contains(output, "Config: port") {
		t.Error("Expected port in log output for SSE transport")
	}
}

func TestSettingsLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("settings", "settings", SettingsLogValue(*validSettings()))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Failed to decode log record: %v", err)
	}
	settings, ok := record["settings"].(map[string]any)
	if !ok {
		t.Fatalf("Expected settings group, got %v", record["settings"])
	}
	docs, ok := settings["docs"].(map[string]any)
	if !ok {
		t.Fatalf("Expected docs group, got %v", settings["docs"])
	}
	if docs["package"] != "oceanic.js" {
		t.Errorf("Expected package oceanic.js, got %v", docs["package"])
	}
}

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{LogFormatText, func(t *testing.T, out string) {
			if !strings.Contains(out, "msg=hello") {
				t.Errorf("Expected text output, got %q", out)
			}
		}},
		{LogFormatJSON, func(t *testing.T, out string) {
			if !strings.Contains(out, `"msg":"hello"`) {
				t.Errorf("Expected JSON output, got %q", out)
			}
		}},
		{LogFormatPretty, func(t *testing.T, out string) {
			if !strings.Contains(out, "hello") {
				t.Errorf("Expected pretty output, got %q", out)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(LogSettings{Level: "info", Format: tt.format}, &buf)
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}
			logger.Info("hello")
			tt.check(t, buf.String())
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogSettings{Level: "warn", Format: LogFormatText}, &buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("Expected info record to be dropped")
	}
	if !strings.Contains(out, "loud") {
		t.Error("Expected warn record to be written")
	}
}

func TestNewLogger_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogSettings{Level: "debug", Format: LogFormatText}, &buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	ctx := slogctx.Append(context.Background(), "version", "1.9.0")
	logger.InfoContext(ctx, "generating")

	if !strings.Contains(buf.String(), "version=1.9.0") {
		t.Errorf("Expected context attribute in output, got %q", buf.String())
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(LogSettings{Level: "chatty"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for invalid level")
	}
}
