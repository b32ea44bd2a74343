// Unit tests for the metrics scrape endpoint
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

// TestServerHandleMetrics verifies the scrape handler output
func TestServerHandleMetrics(t *testing.T) {
	reg := NewRegistry()
	c := NewCounter("throttle_samples_total", "Samples")
	reg.MustRegister(c)
	c.Add(Labels{"channel": "1"}, 42)

	s := NewServer(":0", reg)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	s.handleMetrics(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `throttle_samples_total{channel="1"} 42`) {
		t.Errorf("body missing sample line:\n%s", rec.Body.String())
	}
}
