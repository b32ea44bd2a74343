// Analog throttle processor with self-calibration
//
// Port of ebike-controller src/throttle.c throttle_process()
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

import "github.com/KingQueenWong/ebike-g4/pkg/filter"

// Analog owns the calibration state machine and output shaping for one
// analog throttle channel. It must be invoked exactly once per sample
// period; skipped or duplicated invocations corrupt the startup timing.
//
// Startup sequence: for the first StartDeadtime samples the input is
// ignored so the biquad filter can settle. For the remainder of the
// StartTime window the filtered voltage is averaged; the average becomes
// the rider's "throttle released" minimum position. The maximum position
// is estimated from the supply reference voltage minus a dropout margin.
// Both bounds are replaced with defaults when they fall outside their
// plausibility bands, so a miscalibrated or disconnected throttle can
// never produce a degenerate scale factor.
type Analog struct {
	cfg  Config
	filt *filter.Biquad
	vref func() float32

	startupCount int
	min          float32
	max          float32
	scaleFactor  float32
	on           bool // hysteresis latch
	prevOutput   float32
	status       Status
}

// NewAnalog creates an analog processor. vref is read exactly once per
// calibration, at the averaging-to-calibrated transition.
func NewAnalog(cfg Config, vref func() float32) *Analog {
	return &Analog{
		cfg:    cfg,
		filt:   filter.NewLowPass(SampleRate, cfg.FilterHz, cfg.FilterQ),
		vref:   vref,
		status: StatusDeadtime,
	}
}

// Process feeds one raw voltage sample through the filter and state
// machine and returns the normalized command. The command is zero for
// the whole calibration window and whenever the channel is faulted or
// hysteresis-gated.
func (a *Analog) Process(rawVoltage float32) float32 {
	v := a.filt.Apply(rawVoltage)

	// Startup: deadtime, then minimum-position averaging. Never emits a
	// nonzero command.
	if a.startupCount < a.cfg.StartTime {
		a.startupCount++
		if a.startupCount >= a.cfg.StartDeadtime {
			a.min += v
			a.status = StatusAveraging
		} else {
			a.status = StatusDeadtime
		}
		return 0
	}

	// Single transition sample: finish calibration. The counter is
	// advanced past StartTime so this branch fires exactly once.
	if a.startupCount == a.cfg.StartTime {
		a.startupCount++
		a.min /= float32(a.cfg.StartTime - a.cfg.StartDeadtime)
		if a.min > minBandHigh || a.min < minBandLow {
			a.min = a.cfg.MinDefault
		}
		a.max = a.vref() - a.cfg.Dropout
		if a.max > maxBandHigh || a.max < maxBandLow {
			a.max = a.cfg.MaxDefault
		}
		a.scaleFactor = 1.0 / (a.max - a.min)
	}

	// A reading well below the calibrated minimum means the sensor is
	// disconnected or faulted: restart calibration from scratch.
	if v < a.min-a.cfg.RangeLimit {
		a.startupCount = 0
		a.min = 0
		a.status = StatusFaulted
		return 0
	}

	// Auto-range upward only. The maximum may creep up over the life of
	// the sensor; a spuriously high minimum is never trusted.
	if v > a.max+a.cfg.RangeLimit {
		a.max = v
		a.scaleFactor = 1.0 / (a.max - a.min)
	}

	temp := clip((v-a.min)*a.scaleFactor, a.cfg.OutputMin, a.cfg.OutputMax)

	// Hysteresis gate around the zero threshold to prevent chatter.
	if a.on {
		a.status = StatusRunning
		if temp <= a.cfg.HystLow {
			temp = 0
			a.on = false
			a.status = StatusGated
		}
	} else {
		if temp >= a.cfg.HystHigh {
			a.on = true
			a.status = StatusRunning
		} else {
			temp = 0
			a.status = StatusGated
		}
	}

	// Rate limit increases only. Throttle release is never delayed.
	if delta := temp - a.prevOutput; delta > a.cfg.SlewRate {
		temp = a.prevOutput + a.cfg.SlewRate
	}
	a.prevOutput = temp
	return temp
}

// Status reports the diagnostic state of the last Process call.
func (a *Analog) Status() Status { return a.status }

// Calibrated reports whether the startup sequence has completed.
func (a *Analog) Calibrated() bool { return a.startupCount > a.cfg.StartTime }

// Min returns the calibrated minimum position in volts.
func (a *Analog) Min() float32 { return a.min }

// Max returns the calibrated maximum position in volts.
func (a *Analog) Max() float32 { return a.max }

// Reset returns the processor to its initial state. Used when a channel
// switches mode at runtime so no stale calibration survives.
func (a *Analog) Reset() {
	a.filt.Reset()
	a.startupCount = 0
	a.min = 0
	a.max = 0
	a.scaleFactor = 0
	a.on = false
	a.prevOutput = 0
	a.status = StatusDeadtime
}
