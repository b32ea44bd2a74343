// Throttle mode configurator
//
// Port of ebike-controller src/throttle.c throttle_switch_type()
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

import (
	"github.com/KingQueenWong/ebike-g4/pkg/errors"
	"github.com/KingQueenWong/ebike-g4/pkg/hw"
	"github.com/KingQueenWong/ebike-g4/pkg/log"
)

// Channel numbers recognized by the configurator.
const (
	MinChannel = 1
	MaxChannel = 2
)

// Configurator wires a logical throttle channel to the input source its
// type requires. It reconfigures hardware-adjacent resources exactly
// once per call and must not run concurrently with an active sampling
// loop for the same channel.
type Configurator struct {
	ctrl   hw.ChannelControl
	logger *log.Logger
}

// NewConfigurator creates a configurator over the given channel control
// capability.
func NewConfigurator(ctrl hw.ChannelControl) *Configurator {
	return &Configurator{
		ctrl:   ctrl,
		logger: log.GetLogger("throttle"),
	}
}

// Configure applies the hardware wiring for the channel's throttle type.
//
// Analog: the pin is routed to the ADC and edge interrupt delivery is
// disabled. PAS: the pin becomes a digital level input with the
// rising-edge interrupt line armed (wake only; period measurement is
// polled) and the channel's free-running period counter started at the
// fixed 0.1 ms tick.
//
// An invalid channel or unrecognized type is a caller contract violation
// and deliberately a no-op: the channel keeps its previous wiring.
func (c *Configurator) Configure(channel int, typ Type) error {
	if channel < MinChannel || channel > MaxChannel {
		c.logger.Warn("ignoring configure for invalid channel %d", channel)
		return nil
	}

	switch typ {
	case TypeAnalog:
		if err := c.ctrl.SetAnalogInput(channel); err != nil {
			return errors.Wrap(err, errors.ErrHardwareGPIO, "set analog input")
		}
		if err := c.ctrl.DisableEdgeIRQ(channel); err != nil {
			return errors.Wrap(err, errors.ErrHardwareGPIO, "disable edge irq")
		}
		c.logger.Info("channel %d configured for analog input", channel)

	case TypePAS:
		if err := c.ctrl.SetDigitalInput(channel); err != nil {
			return errors.Wrap(err, errors.ErrHardwareGPIO, "set digital input")
		}
		if err := c.ctrl.EnableRisingEdgeIRQ(channel); err != nil {
			return errors.Wrap(err, errors.ErrHardwareGPIO, "enable rising edge irq")
		}
		if err := c.ctrl.StartPeriodCounter(channel, hw.PeriodCounterTick); err != nil {
			return errors.Wrap(err, errors.ErrHardwareGPIO, "start period counter")
		}
		c.logger.Info("channel %d configured for pedal assist input", channel)

	default:
		c.logger.Warn("ignoring configure for channel %d: unrecognized type %v", channel, typ)
	}
	return nil
}
