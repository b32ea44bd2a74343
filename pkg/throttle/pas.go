// Pedal-assist sensor (PAS) throttle processor
//
// Port of ebike-controller src/throttle.c throttle_pas_process()
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

// PAS estimates a command from the pulse train of a pedal-assist sensor.
// Edge detection is done by polling the pin level once per sample period;
// the configured rising-edge interrupt line is used only to wake the
// system and plays no part in the period measurement.
//
// filteredSpeed is an exponentially smoothed pulse period in seconds, not
// a rate: slower pedaling yields a larger value. The configured scale
// factor is the calibration point that maps the period onto the command
// range.
type PAS struct {
	cfg Config

	lastReading   bool
	timeCounter   int
	filteredSpeed float32
}

// NewPAS creates a PAS processor with zeroed pulse-timing state.
func NewPAS(cfg Config) *PAS {
	return &PAS{cfg: cfg}
}

// Process reads one polled pin level and returns the normalized command.
// Must be invoked exactly once per sample period; timeCounter counts
// sample periods between rising edges.
func (p *PAS) Process(level bool) float32 {
	if level != p.lastReading {
		p.lastReading = level
		if level {
			// Rising edge: fold the measured period into the estimate.
			period := float32(p.timeCounter) / 1000.0
			p.filteredSpeed = period*p.cfg.PASFilter + p.filteredSpeed*(1-p.cfg.PASFilter)
			p.timeCounter = 0
		}
	} else {
		p.timeCounter++
	}

	return clip(p.filteredSpeed*p.cfg.PASScale, p.cfg.OutputMin, p.cfg.OutputMax)
}

// FilteredSpeed returns the smoothed pulse period estimate in seconds.
func (p *PAS) FilteredSpeed() float32 { return p.filteredSpeed }

// Reset clears the pulse-timing state. Used on runtime mode switches.
func (p *PAS) Reset() {
	p.lastReading = false
	p.timeCounter = 0
	p.filteredSpeed = 0
}
