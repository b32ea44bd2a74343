// Unit tests for the pedal-assist throttle processor
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

import "testing"

// pedal drives the processor with a square wave of the given half period
// (in samples) for the given number of full pedal cycles, returning the
// last command.
func pedal(p *PAS, halfPeriod, cycles int) float32 {
	var out float32
	level := false
	for c := 0; c < cycles; c++ {
		for _, next := range []bool{true, false} {
			level = next
			for i := 0; i < halfPeriod; i++ {
				out = p.Process(level)
			}
		}
	}
	return out
}

// TestPASPeriodMeasurement verifies the smoothed period converges to the
// pulse spacing
func TestPASPeriodMeasurement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	p := NewPAS(cfg)

	// 100-sample pulse period. The two toggle samples per cycle do not
	// advance the counter, so the measured period is 98 ms.
	pedal(p, 50, 200)

	if !approx(p.FilteredSpeed(), 0.098, 0.001) {
		t.Errorf("filtered period %g, want about 0.098", p.FilteredSpeed())
	}
}

// TestPASSmoothing verifies the exponential convergence rate
func TestPASSmoothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	p := NewPAS(cfg)

	// The first rising edge folds in a zero period; the 7 that follow
	// each fold in the true period, so the estimate after 8 cycles is
	// target*(1-(1-alpha)^7).
	pedal(p, 50, 8)
	target := float32(0.098)
	alpha := cfg.PASFilter
	want := target
	for i := 0; i < 7; i++ {
		want *= 1 - alpha
	}
	want = target - want
	if !approx(p.FilteredSpeed(), want, 0.005) {
		t.Errorf("filtered period after 8 cycles %g, want about %g", p.FilteredSpeed(), want)
	}
}

// TestPASScaleAndClip verifies the output scaling and clip bounds
func TestPASScaleAndClip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	cfg.PASScale = 5.0
	p := NewPAS(cfg)

	out := pedal(p, 50, 200)
	want := p.FilteredSpeed() * cfg.PASScale
	if !approx(out, want, 0.001) {
		t.Errorf("command %g, want %g", out, want)
	}

	// A large scale factor saturates at the output ceiling.
	cfg.PASScale = 50.0
	p = NewPAS(cfg)
	out = pedal(p, 50, 200)
	if out != OutputMax {
		t.Errorf("command %g, want clipped to %g", out, OutputMax)
	}
}

// TestPASIdleHoldsEstimate verifies a stopped pedal produces no new
// period samples
func TestPASIdleHoldsEstimate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	p := NewPAS(cfg)
	pedal(p, 50, 50)
	settled := p.FilteredSpeed()

	// A constant level has no edges: the estimate must not change.
	for i := 0; i < 5000; i++ {
		p.Process(false)
	}
	if p.FilteredSpeed() != settled {
		t.Errorf("filtered period changed from %g to %g with no edges", settled, p.FilteredSpeed())
	}
}

// TestPASSlowerPedalingRaisesPeriod verifies longer pulse spacing raises
// the estimate
func TestPASSlowerPedalingRaisesPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	fast := NewPAS(cfg)
	slow := NewPAS(cfg)

	pedal(fast, 25, 200)
	pedal(slow, 100, 200)

	if slow.FilteredSpeed() <= fast.FilteredSpeed() {
		t.Errorf("slow pedaling period %g not above fast %g",
			slow.FilteredSpeed(), fast.FilteredSpeed())
	}
}

// TestPASReset verifies the pulse timing state is cleared
func TestPASReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypePAS
	p := NewPAS(cfg)
	pedal(p, 50, 50)

	p.Reset()
	if p.FilteredSpeed() != 0 {
		t.Errorf("filtered period after reset %g, want 0", p.FilteredSpeed())
	}
	if out := p.Process(false); out != 0 {
		t.Errorf("command after reset %g, want 0", out)
	}
}
