// Simulated hardware backend for bench runs and tests
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package hw

import (
	"sync"
	"time"
)

// ChannelMode records the wiring a Sim channel was configured for.
type ChannelMode int

const (
	ModeUnconfigured ChannelMode = iota
	ModeAnalog
	ModeDigital
)

// Sim is an in-memory Board. Tests and the host binary's dry-run mode
// drive it by setting per-channel voltages and pin levels.
type Sim struct {
	mu sync.Mutex

	vref     float32
	voltages map[int]float32
	levels   map[int]bool

	// Recorded configuration, inspected by tests.
	modes       map[int]ChannelMode
	edgeIRQ     map[int]bool
	counterTick map[int]time.Duration
}

// NewSim creates a simulated board with the given supply reference
// voltage.
func NewSim(vref float32) *Sim {
	return &Sim{
		vref:        vref,
		voltages:    make(map[int]float32),
		levels:      make(map[int]bool),
		modes:       make(map[int]ChannelMode),
		edgeIRQ:     make(map[int]bool),
		counterTick: make(map[int]time.Duration),
	}
}

// SetVoltage sets the raw voltage a channel will sample.
func (s *Sim) SetVoltage(channel int, v float32) {
	s.mu.Lock()
	s.voltages[channel] = v
	s.mu.Unlock()
}

// SetLevel sets the binary level a channel's pin will read.
func (s *Sim) SetLevel(channel int, level bool) {
	s.mu.Lock()
	s.levels[channel] = level
	s.mu.Unlock()
}

// SetVref overrides the supply reference voltage.
func (s *Sim) SetVref(v float32) {
	s.mu.Lock()
	s.vref = v
	s.mu.Unlock()
}

func (s *Sim) ReadVoltage(channel int) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voltages[channel]
}

func (s *Sim) Vref() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vref
}

func (s *Sim) Level(channel int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[channel]
}

func (s *Sim) SetAnalogInput(channel int) error {
	s.mu.Lock()
	s.modes[channel] = ModeAnalog
	s.mu.Unlock()
	return nil
}

func (s *Sim) SetDigitalInput(channel int) error {
	s.mu.Lock()
	s.modes[channel] = ModeDigital
	s.mu.Unlock()
	return nil
}

func (s *Sim) EnableRisingEdgeIRQ(channel int) error {
	s.mu.Lock()
	s.edgeIRQ[channel] = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) DisableEdgeIRQ(channel int) error {
	s.mu.Lock()
	s.edgeIRQ[channel] = false
	s.mu.Unlock()
	return nil
}

func (s *Sim) StartPeriodCounter(channel int, tick time.Duration) error {
	s.mu.Lock()
	s.counterTick[channel] = tick
	s.mu.Unlock()
	return nil
}

// Mode returns the recorded wiring of a channel.
func (s *Sim) Mode(channel int) ChannelMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[channel]
}

// EdgeIRQEnabled reports whether edge interrupt delivery is armed.
func (s *Sim) EdgeIRQEnabled(channel int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edgeIRQ[channel]
}

// CounterTick returns the tick resolution the period counter was started
// with, or zero if it was never started.
func (s *Sim) CounterTick(channel int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counterTick[channel]
}
