// Hardware capability interfaces for the throttle subsystem
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package hw defines the narrow interfaces behind which all
// hardware-adjacent resources live. The throttle core never touches pin
// registers directly; a platform backend (sim, Linux GPIO) implements
// these capabilities per target.
package hw

import "time"

// PeriodCounterTick is the fixed resolution of the free-running pulse
// timing counter started for a PAS channel.
const PeriodCounterTick = 100 * time.Microsecond

// ChannelControl configures the input wiring of a throttle channel. The
// operations reconfigure hardware-adjacent resources and must not be
// called concurrently with an active sampling loop for the same channel.
type ChannelControl interface {
	// SetAnalogInput routes the channel's pin to the ADC.
	SetAnalogInput(channel int) error

	// SetDigitalInput routes the channel's pin to a digital level input.
	SetDigitalInput(channel int) error

	// EnableRisingEdgeIRQ arms rising-edge-sensitive interrupt delivery
	// on the channel's external-interrupt line. The edge events only wake
	// the system; period measurement itself is polled.
	EnableRisingEdgeIRQ(channel int) error

	// DisableEdgeIRQ disarms edge-sensitive interrupt delivery.
	DisableEdgeIRQ(channel int) error

	// StartPeriodCounter starts the free-running hardware counter that
	// serves as the channel's pulse timing base.
	StartPeriodCounter(channel int, tick time.Duration) error
}

// AnalogSource supplies raw analog samples and the supply reference
// voltage reading used to bound the calibrated maximum.
type AnalogSource interface {
	// ReadVoltage returns the channel's current raw voltage.
	ReadVoltage(channel int) float32

	// Vref returns the supply reference voltage.
	Vref() float32
}

// PulseInput supplies the polled binary level of a digital input line.
type PulseInput interface {
	Level(channel int) bool
}

// Board is a complete hardware backend.
type Board interface {
	ChannelControl
	AnalogSource
	PulseInput
}
