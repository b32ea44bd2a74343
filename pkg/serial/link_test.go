// Unit tests for command forwarding
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package serial

import (
	"bytes"
	"strings"
	"testing"
)

// TestCommandLinkFraming verifies the frame format
func TestCommandLinkFraming(t *testing.T) {
	var buf bytes.Buffer
	l := NewCommandLink(&buf)

	if err := l.Send(1, 0.425); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := buf.String(); got != "T1=0.425\r\n" {
		t.Errorf("frame %q, want %q", got, "T1=0.425\r\n")
	}
}

// TestCommandLinkSuppressesUnchanged verifies repeated values write once
func TestCommandLinkSuppressesUnchanged(t *testing.T) {
	var buf bytes.Buffer
	l := NewCommandLink(&buf)

	for i := 0; i < 10; i++ {
		l.Send(1, 0.5)
	}
	if n := strings.Count(buf.String(), "\r\n"); n != 1 {
		t.Errorf("wrote %d frames for an unchanged value, want 1", n)
	}

	l.Send(1, 0.6)
	if n := strings.Count(buf.String(), "\r\n"); n != 2 {
		t.Errorf("wrote %d frames after a change, want 2", n)
	}
}

// TestCommandLinkPerChannel verifies channels are tracked independently
func TestCommandLinkPerChannel(t *testing.T) {
	var buf bytes.Buffer
	l := NewCommandLink(&buf)

	l.Send(1, 0.5)
	l.Send(2, 0.5)
	out := buf.String()
	if !strings.Contains(out, "T1=0.500") || !strings.Contains(out, "T2=0.500") {
		t.Errorf("frames %q", out)
	}
}

// TestCommandLinkReset verifies reset forces a resend
func TestCommandLinkReset(t *testing.T) {
	var buf bytes.Buffer
	l := NewCommandLink(&buf)

	l.Send(1, 0.5)
	l.Reset()
	l.Send(1, 0.5)
	if n := strings.Count(buf.String(), "\r\n"); n != 2 {
		t.Errorf("wrote %d frames across a reset, want 2", n)
	}
}

// TestBaudRateToSpeed verifies supported and rejected rates
func TestBaudRateToSpeed(t *testing.T) {
	if _, err := baudRateToSpeed(115200); err != nil {
		t.Errorf("115200 rejected: %v", err)
	}
	if _, err := baudRateToSpeed(12345); err == nil {
		t.Error("12345 accepted")
	}
}
