// Unit tests for the structured logger
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New("test")
	l.SetWriter(buf)
	l.SetColorize(false)
	return l
}

// TestLevelFiltering verifies messages below the level are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(WARN)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("low level messages not filtered: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("high level messages missing: %q", out)
	}
}

// TestTextFormat verifies prefix, level tag and formatting args
func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("channel %d ready", 2)

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Errorf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "test: channel 2 ready") {
		t.Errorf("missing prefix or message: %q", out)
	}
}

// TestFields verifies structured fields render sorted
func TestFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.WithFields(Fields{"channel": 1, "voltage": 0.85}).Info("sample")

	out := buf.String()
	if !strings.Contains(out, "{channel=1, voltage=0.85}") {
		t.Errorf("fields missing or unsorted: %q", out)
	}
}

// TestWithError verifies the error helper adds an error field
func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.WithError(bytes.ErrTooLarge).Error("write failed")
	if !strings.Contains(buf.String(), "error=") {
		t.Errorf("missing error field: %q", buf.String())
	}
}

// TestJSONFormat verifies machine-readable output
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetFormat(FormatJSON)

	l.WithField("channel", 1).Warn("range fault")

	var entry struct {
		Level   string                 `json:"level"`
		Logger  string                 `json:"logger"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json output %q: %v", buf.String(), err)
	}
	if entry.Level != "WARN" || entry.Logger != "test" || entry.Message != "range fault" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["channel"] != float64(1) {
		t.Errorf("fields = %v", entry.Fields)
	}
}

// TestWithPrefix verifies sub-loggers share settings
func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(ERROR)

	sub := l.WithPrefix("sub")
	sub.Warn("dropped")
	sub.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("sub-logger ignored parent level: %q", out)
	}
	if !strings.Contains(out, "sub: kept") {
		t.Errorf("sub-logger prefix missing: %q", out)
	}
}

// TestParseLevel verifies level name parsing
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"ERROR", ERROR},
		{"bogus", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
