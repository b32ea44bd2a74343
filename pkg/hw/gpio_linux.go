//go:build linux

// Linux hardware backend
//
// Digital throttle inputs (PAS sensors) are read through periph.io GPIO
// pins; analog inputs come from the industrial I/O (IIO) sysfs ADC
// interface, which is how ADC channels surface on the Pi/BeagleBone
// class boards this host targets.
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package hw

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/KingQueenWong/ebike-g4/pkg/errors"
)

// LinuxPin describes one channel's wiring on a Linux board.
type LinuxPin struct {
	// GPIO pin name as known to gpioreg (e.g. "GPIO17").
	Name string

	// Pull configuration for digital mode: 1 pull-up, -1 pull-down,
	// 0 leave unchanged.
	Pull int

	// IIO voltage index for analog mode (in_voltage<N>_raw).
	IIOIndex int
}

// LinuxConfig configures a LinuxBoard.
type LinuxConfig struct {
	// Vref is the ADC supply reference voltage.
	Vref float32

	// Pins maps throttle channel numbers to their wiring.
	Pins map[int]LinuxPin

	// IIODevice is the sysfs IIO device directory. Defaults to
	// /sys/bus/iio/devices/iio:device0.
	IIODevice string

	// IIOScale is the voltage per raw LSB. When zero it is read from
	// the device's in_voltage_scale file (which reports millivolts).
	IIOScale float32
}

// LinuxBoard is the periph.io-backed Board implementation.
type LinuxBoard struct {
	mu   sync.Mutex
	cfg  LinuxConfig
	pins map[int]gpio.PinIO
	// raw-to-volts factor, resolved at construction
	scale float32
}

// NewLinuxBoard initializes the periph host drivers and resolves the
// configured pins.
func NewLinuxBoard(cfg LinuxConfig) (*LinuxBoard, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.GPIOError("periph host init", err)
	}
	if cfg.IIODevice == "" {
		cfg.IIODevice = "/sys/bus/iio/devices/iio:device0"
	}

	b := &LinuxBoard{
		cfg:  cfg,
		pins: make(map[int]gpio.PinIO),
	}

	for ch, lp := range cfg.Pins {
		if lp.Name == "" {
			continue
		}
		pin := gpioreg.ByName(lp.Name)
		if pin == nil {
			return nil, errors.GPIOError(fmt.Sprintf("unknown pin %q for channel %d", lp.Name, ch), nil)
		}
		b.pins[ch] = pin
	}

	b.scale = cfg.IIOScale
	if b.scale == 0 {
		scale, err := b.readIIOScale()
		if err != nil {
			// No IIO ADC present; analog channels will fail at
			// configuration time instead.
			scale = 0
		}
		b.scale = scale
	}

	return b, nil
}

func (b *LinuxBoard) pinFor(channel int) (gpio.PinIO, LinuxPin, error) {
	pin, ok := b.pins[channel]
	if !ok {
		return nil, LinuxPin{}, errors.GPIOError(fmt.Sprintf("no pin configured for channel %d", channel), nil)
	}
	return pin, b.cfg.Pins[channel], nil
}

func pullFor(lp LinuxPin) gpio.Pull {
	switch {
	case lp.Pull > 0:
		return gpio.PullUp
	case lp.Pull < 0:
		return gpio.PullDown
	}
	return gpio.PullNoChange
}

// SetAnalogInput verifies the channel's IIO voltage file is readable.
// The GPIO pin itself is left alone; on these boards the ADC is a
// separate peripheral.
func (b *LinuxBoard) SetAnalogInput(channel int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	lp, ok := b.cfg.Pins[channel]
	if !ok {
		return errors.ADCError(channel, fmt.Errorf("no wiring configured"))
	}
	if b.scale == 0 {
		return errors.ADCError(channel, fmt.Errorf("no IIO ADC device available"))
	}
	if _, err := b.readIIORaw(lp.IIOIndex); err != nil {
		return errors.ADCError(channel, err)
	}
	return nil
}

// SetDigitalInput configures the channel's GPIO pin as a plain input.
func (b *LinuxBoard) SetDigitalInput(channel int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pin, lp, err := b.pinFor(channel)
	if err != nil {
		return err
	}
	if err := pin.In(pullFor(lp), gpio.NoEdge); err != nil {
		return errors.GPIOError(fmt.Sprintf("channel %d digital input", channel), err)
	}
	return nil
}

// EnableRisingEdgeIRQ arms rising edge detection on the channel's pin.
func (b *LinuxBoard) EnableRisingEdgeIRQ(channel int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pin, lp, err := b.pinFor(channel)
	if err != nil {
		return err
	}
	if err := pin.In(pullFor(lp), gpio.RisingEdge); err != nil {
		return errors.GPIOError(fmt.Sprintf("channel %d edge irq", channel), err)
	}
	return nil
}

// DisableEdgeIRQ disarms edge detection on the channel's pin.
func (b *LinuxBoard) DisableEdgeIRQ(channel int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pin, lp, err := b.pinFor(channel)
	if err != nil {
		return err
	}
	if err := pin.In(pullFor(lp), gpio.NoEdge); err != nil {
		return errors.GPIOError(fmt.Sprintf("channel %d disable irq", channel), err)
	}
	return nil
}

// StartPeriodCounter is a no-op on Linux; pulse periods are measured by
// the 1 kHz sampling loop itself.
func (b *LinuxBoard) StartPeriodCounter(channel int, tick time.Duration) error {
	return nil
}

// ReadVoltage reads the channel's IIO raw value and converts to volts.
// Read failures report zero volts, which the throttle core treats as a
// released pedal.
func (b *LinuxBoard) ReadVoltage(channel int) float32 {
	b.mu.Lock()
	lp, ok := b.cfg.Pins[channel]
	scale := b.scale
	b.mu.Unlock()

	if !ok || scale == 0 {
		return 0
	}
	raw, err := b.readIIORaw(lp.IIOIndex)
	if err != nil {
		return 0
	}
	return float32(raw) * scale
}

// Vref returns the configured supply reference voltage.
func (b *LinuxBoard) Vref() float32 {
	return b.cfg.Vref
}

// Level reads the channel's GPIO pin.
func (b *LinuxBoard) Level(channel int) bool {
	b.mu.Lock()
	pin, ok := b.pins[channel]
	b.mu.Unlock()

	if !ok {
		return false
	}
	return pin.Read() == gpio.High
}

func (b *LinuxBoard) readIIORaw(index int) (int64, error) {
	path := filepath.Join(b.cfg.IIODevice, fmt.Sprintf("in_voltage%d_raw", index))
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}

// readIIOScale reads the device-wide voltage scale. IIO reports
// millivolts per LSB.
func (b *LinuxBoard) readIIOScale() (float32, error) {
	path := filepath.Join(b.cfg.IIODevice, "in_voltage_scale")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	mv, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, err
	}
	return float32(mv / 1000.0), nil
}
