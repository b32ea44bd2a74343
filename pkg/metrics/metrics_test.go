// Unit tests for Prometheus metrics
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"strings"
	"sync"
	"testing"
)

// TestCounter verifies counter increments per label set
func TestCounter(t *testing.T) {
	c := NewCounter("faults_total", "Total faults")

	if v := c.Get(nil); v != 0 {
		t.Errorf("initial value %d, want 0", v)
	}
	c.Inc(nil)
	c.Add(nil, 10)
	if v := c.Get(nil); v != 11 {
		t.Errorf("value %d, want 11", v)
	}

	ch1 := Labels{"channel": "1"}
	ch2 := Labels{"channel": "2"}
	c.Inc(ch1)
	c.Inc(ch1)
	c.Inc(ch2)
	if c.Get(ch1) != 2 || c.Get(ch2) != 1 {
		t.Errorf("per-label values %d/%d, want 2/1", c.Get(ch1), c.Get(ch2))
	}
}

// TestGauge verifies set and add semantics
func TestGauge(t *testing.T) {
	g := NewGauge("command", "Current command")

	labels := Labels{"channel": "1"}
	g.Set(labels, 0.425)
	if v := g.Get(labels); v != 0.425 {
		t.Errorf("value %g, want 0.425", v)
	}
	g.Add(labels, 0.1)
	if v := g.Get(labels); v < 0.52 || v > 0.53 {
		t.Errorf("value %g, want 0.525", v)
	}
	g.Set(labels, 0)
	if v := g.Get(labels); v != 0 {
		t.Errorf("value %g, want 0", v)
	}
}

// TestCounterConcurrent verifies counters tolerate concurrent increments
func TestCounterConcurrent(t *testing.T) {
	c := NewCounter("samples_total", "Samples")
	labels := Labels{"channel": "1"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc(labels)
			}
		}()
	}
	wg.Wait()

	if v := c.Get(labels); v != 8000 {
		t.Errorf("value %d, want 8000", v)
	}
}

// TestGather verifies the Prometheus text format
func TestGather(t *testing.T) {
	reg := NewRegistry()
	c := NewCounter("faults_total", "Total faults")
	g := NewGauge("command", "Current command")
	reg.MustRegister(c)
	reg.MustRegister(g)

	c.Inc(Labels{"channel": "1"})
	g.Set(Labels{"channel": "1"}, 0.5)

	out := reg.Gather()
	for _, want := range []string{
		"# HELP faults_total Total faults",
		"# TYPE faults_total counter",
		`faults_total{channel="1"} 1`,
		"# TYPE command gauge",
		`command{channel="1"} 0.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("gather output missing %q:\n%s", want, out)
		}
	}
}

// TestRegistryDuplicate verifies duplicate names are rejected
func TestRegistryDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(NewCounter("x", "first"))
	if err := reg.Register(NewCounter("x", "second")); err == nil {
		t.Error("duplicate metric accepted")
	}
}

// TestThrottleMetrics verifies the domain metric set registers and
// renders
func TestThrottleMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewThrottleMetrics(reg)

	labels := ChannelLabels(1)
	m.Samples.Inc(labels)
	m.RangeFaults.Inc(labels)
	m.CalibrationRestarts.Inc(labels)
	m.Command.Set(labels, 0.99)

	out := reg.Gather()
	for _, want := range []string{
		"throttle_samples_total",
		"throttle_range_faults_total",
		"throttle_calibration_restarts_total",
		`throttle_command{channel="1"} 0.99`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("gather output missing %q", want)
		}
	}
}
