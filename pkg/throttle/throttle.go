// Throttle signal acquisition and conditioning
//
// Port of ebike-controller src/throttle.c
//
// Converts a raw rider input (analog voltage or pedal-assist pulse train)
// into a normalized, safety-clamped command consumed by the motor control
// loop. The processors are invoked from a fixed-rate periodic caller and
// never block; each channel's state is owned exclusively by its processor.
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

import "fmt"

// Type selects the processing path for a logical throttle channel.
type Type int

const (
	// TypeNone disables the channel.
	TypeNone Type = iota

	// TypeAnalog processes a filtered analog voltage.
	TypeAnalog

	// TypePAS processes a pedal-assist sensor pulse train.
	TypePAS
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeAnalog:
		return "analog"
	case TypePAS:
		return "pas"
	default:
		return "unknown"
	}
}

// ParseType parses a throttle type name from configuration.
func ParseType(s string) (Type, error) {
	switch s {
	case "none":
		return TypeNone, nil
	case "analog":
		return TypeAnalog, nil
	case "pas":
		return TypePAS, nil
	default:
		return TypeNone, fmt.Errorf("throttle: unknown type %q", s)
	}
}

// Status reports why the current command has its value. The command
// output is authoritative; Status exists for diagnostics only.
type Status int

const (
	// StatusDeadtime: calibration silent window, output forced to zero.
	StatusDeadtime Status = iota

	// StatusAveraging: minimum-position averaging window, output zero.
	StatusAveraging

	// StatusRunning: calibrated, command follows the scaled input.
	StatusRunning

	// StatusGated: calibrated but held at zero by the hysteresis latch.
	StatusGated

	// StatusFaulted: input fell below the calibrated range; the channel
	// is restarting calibration and emits zero meanwhile.
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusDeadtime:
		return "deadtime"
	case StatusAveraging:
		return "averaging"
	case StatusRunning:
		return "running"
	case StatusGated:
		return "gated"
	case StatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Sampling cadence of the periodic caller. The motor control app timer
// invokes each active channel once per millisecond.
const SampleRate = 1000.0

// Output clip bounds of the final command.
const (
	OutputMin = 0.00
	OutputMax = 0.99
)

// Calibration defaults, taken from the original firmware's
// project_parameters.h.
const (
	DefaultStartTime     = 1000 // samples of total startup window
	DefaultStartDeadtime = 500  // samples ignored while the filter settles
	DefaultRangeLimit    = 0.05 // volts beyond min/max before fault/re-range
	DefaultDropout       = 0.72 // volts below Vref assumed lost at full scale
	DefaultMin           = 0.85 // volts, fallback minimum position
	DefaultMax           = 2.20 // volts, fallback maximum position
	DefaultHystLow       = 0.025
	DefaultHystHigh      = 0.05
	DefaultSlewRate      = 0.0005 // per sample; 50%/s at 1 kHz
	DefaultFilterHz      = 2.0
	DefaultFilterQ       = 0.707
	DefaultPASFilter     = 0.125 // pulse period smoothing factor
	DefaultPASScale      = 1.0   // period (s) to command scaling
)

// Plausibility bands applied to the calibration result. A learned bound
// outside its band is replaced with the documented default.
const (
	minBandLow  = 0.3
	minBandHigh = 1.0
	maxBandLow  = 1.5
	maxBandHigh = 3.0
)

// Config holds the resolved numeric settings for one throttle channel.
// Values arrive already parsed and bounds-checked from the config layer;
// the processors trust them.
type Config struct {
	Type Type

	// Analog calibration
	StartTime     int
	StartDeadtime int
	RangeLimit    float32
	MinDefault    float32
	MaxDefault    float32
	Dropout       float32

	// Output shaping
	OutputMin float32
	OutputMax float32
	HystLow   float32
	HystHigh  float32
	SlewRate  float32

	// Analog input filter
	FilterHz float32
	FilterQ  float32

	// PAS
	PASFilter float32
	PASScale  float32
}

// DefaultConfig returns the settings of the original firmware.
func DefaultConfig() Config {
	return Config{
		Type:          TypeAnalog,
		StartTime:     DefaultStartTime,
		StartDeadtime: DefaultStartDeadtime,
		RangeLimit:    DefaultRangeLimit,
		MinDefault:    DefaultMin,
		MaxDefault:    DefaultMax,
		Dropout:       DefaultDropout,
		OutputMin:     OutputMin,
		OutputMax:     OutputMax,
		HystLow:       DefaultHystLow,
		HystHigh:      DefaultHystHigh,
		SlewRate:      DefaultSlewRate,
		FilterHz:      DefaultFilterHz,
		FilterQ:       DefaultFilterQ,
		PASFilter:     DefaultPASFilter,
		PASScale:      DefaultPASScale,
	}
}

// Validate checks invariants the processors rely on.
func (c Config) Validate() error {
	if c.StartDeadtime <= 0 || c.StartTime <= c.StartDeadtime {
		return fmt.Errorf("throttle: start_time (%d) must exceed start_deadtime (%d)", c.StartTime, c.StartDeadtime)
	}
	if c.MaxDefault <= c.MinDefault {
		return fmt.Errorf("throttle: max_default (%g) must exceed min_default (%g)", c.MaxDefault, c.MinDefault)
	}
	if c.OutputMax <= c.OutputMin {
		return fmt.Errorf("throttle: output_max (%g) must exceed output_min (%g)", c.OutputMax, c.OutputMin)
	}
	if c.HystHigh < c.HystLow {
		return fmt.Errorf("throttle: hysteresis_high (%g) must not be below hysteresis_low (%g)", c.HystHigh, c.HystLow)
	}
	if c.SlewRate <= 0 {
		return fmt.Errorf("throttle: slew_rate must be positive")
	}
	if c.PASFilter <= 0 || c.PASFilter > 1 {
		return fmt.Errorf("throttle: pas_filter (%g) must be in (0, 1]", c.PASFilter)
	}
	return nil
}

// clip bounds a command to the configured output range.
func clip(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
