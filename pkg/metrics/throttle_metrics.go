// Throttle host metric definitions.
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import "strconv"

// ThrottleMetrics bundles the metrics the throttle host publishes.
type ThrottleMetrics struct {
	// CalibrationRestarts counts returns to the calibration state after
	// a below-minimum range fault.
	CalibrationRestarts *Counter

	// RangeFaults counts raw samples rejected for being below the
	// calibrated minimum by more than the range limit.
	RangeFaults *Counter

	// Command is the current throttle command per channel, 0.00 to 0.99.
	Command *Gauge

	// PASSpeed is the smoothed pedal pulse period per channel in
	// seconds.
	PASSpeed *Gauge

	// Samples counts processed input samples per channel.
	Samples *Counter
}

// NewThrottleMetrics creates the throttle metric set and registers it
// with the given registry.
func NewThrottleMetrics(reg *Registry) *ThrottleMetrics {
	m := &ThrottleMetrics{
		CalibrationRestarts: NewCounter("throttle_calibration_restarts_total",
			"Number of calibration restarts caused by range faults"),
		RangeFaults: NewCounter("throttle_range_faults_total",
			"Number of raw samples rejected below the calibrated minimum"),
		Command: NewGauge("throttle_command",
			"Current throttle command in the range 0.00 to 0.99"),
		PASSpeed: NewGauge("throttle_pas_period",
			"Smoothed pedal assist pulse period in seconds"),
		Samples: NewCounter("throttle_samples_total",
			"Number of processed throttle input samples"),
	}
	reg.MustRegister(m.CalibrationRestarts)
	reg.MustRegister(m.RangeFaults)
	reg.MustRegister(m.Command)
	reg.MustRegister(m.PASSpeed)
	reg.MustRegister(m.Samples)
	return m
}

// ChannelLabels returns the label set for a throttle channel.
func ChannelLabels(channel int) Labels {
	return Labels{"channel": strconv.Itoa(channel)}
}
