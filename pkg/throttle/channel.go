// Per-channel throttle state ownership and periodic update entry point
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package throttle

import (
	"sync"

	"github.com/KingQueenWong/ebike-g4/pkg/errors"
	"github.com/KingQueenWong/ebike-g4/pkg/hw"
)

// Channel owns one throttle channel's processor and publishes its latest
// command for the motor control consumer. All processing state is held
// here by reference; there are no package-level singletons, so channels
// 1 and 2 share nothing.
//
// Update must be called exactly once per sample period from a single
// periodic caller. Command and Status may be read from other goroutines.
type Channel struct {
	num   int
	cfg   Config
	board hw.Board
	conf  *Configurator

	analog *Analog
	pas    *PAS

	mu          sync.Mutex
	command     float32
	faultCount  uint64
	recalCount  uint64
	lastFaulted bool
}

// NewChannel creates a channel with validated configuration. The
// hardware is not touched until Configure is called.
func NewChannel(num int, cfg Config, board hw.Board) (*Channel, error) {
	if num < MinChannel || num > MaxChannel {
		return nil, errors.ThrottleError(num, "channel number out of range")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValidation, "throttle config")
	}

	ch := &Channel{
		num:   num,
		cfg:   cfg,
		board: board,
		conf:  NewConfigurator(board),
	}
	ch.buildProcessor()
	return ch, nil
}

func (ch *Channel) buildProcessor() {
	ch.analog = nil
	ch.pas = nil
	switch ch.cfg.Type {
	case TypeAnalog:
		ch.analog = NewAnalog(ch.cfg, ch.board.Vref)
	case TypePAS:
		ch.pas = NewPAS(ch.cfg)
	}
}

// Configure applies the channel's hardware wiring for its current type.
func (ch *Channel) Configure() error {
	return ch.conf.Configure(ch.num, ch.cfg.Type)
}

// SetType switches the channel's throttle type at runtime. The
// processor state is reset to initial values so no stale calibration or
// pulse timing survives the switch. Must not be called concurrently
// with Update.
func (ch *Channel) SetType(typ Type) error {
	ch.cfg.Type = typ
	ch.buildProcessor()
	ch.mu.Lock()
	ch.command = 0
	ch.mu.Unlock()
	return ch.Configure()
}

// Update runs one sample period: it reads the channel's input, steps the
// processor and publishes the command. Returns the command value.
func (ch *Channel) Update() float32 {
	var cmd float32
	switch {
	case ch.analog != nil:
		cmd = ch.analog.Process(ch.board.ReadVoltage(ch.num))
		ch.trackFaults(ch.analog.Status())
	case ch.pas != nil:
		cmd = ch.pas.Process(ch.board.Level(ch.num))
	default:
		cmd = 0
	}

	ch.mu.Lock()
	ch.command = cmd
	ch.mu.Unlock()
	return cmd
}

func (ch *Channel) trackFaults(st Status) {
	faulted := st == StatusFaulted
	if faulted && !ch.lastFaulted {
		ch.mu.Lock()
		ch.faultCount++
		ch.recalCount++
		ch.mu.Unlock()
	}
	ch.lastFaulted = faulted
}

// Command returns the most recently published normalized command in
// [OutputMin, OutputMax].
func (ch *Channel) Command() float32 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.command
}

// Status reports the diagnostic state of the channel's processor.
func (ch *Channel) Status() Status {
	if ch.analog != nil {
		return ch.analog.Status()
	}
	if ch.pas != nil {
		return StatusRunning
	}
	return StatusGated
}

// FaultCount returns how many range faults have triggered recalibration.
func (ch *Channel) FaultCount() uint64 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.faultCount
}

// PASSpeed returns the smoothed pulse period estimate in seconds, or
// zero for non-PAS channels.
func (ch *Channel) PASSpeed() float32 {
	if ch.pas != nil {
		return ch.pas.FilteredSpeed()
	}
	return 0
}

// Number returns the channel number.
func (ch *Channel) Number() int { return ch.num }

// Type returns the channel's current throttle type.
func (ch *Channel) Type() Type { return ch.cfg.Type }
