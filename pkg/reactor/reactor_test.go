// Unit tests for the timer dispatch loop
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package reactor

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestTimerFires verifies a registered timer runs once
func TestTimerFires(t *testing.T) {
	r := New()
	defer func() { r.End(); r.Wait() }()

	fired := make(chan struct{})
	r.RegisterTimer(func(eventtime float64) float64 {
		close(fired)
		return NEVER
	}, NOW)
	r.Run()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

// TestPeriodicTimer verifies a rescheduling callback fires repeatedly
func TestPeriodicTimer(t *testing.T) {
	r := New()
	defer func() { r.End(); r.Wait() }()

	var count atomic.Int64
	done := make(chan struct{})
	r.RegisterTimer(func(eventtime float64) float64 {
		if count.Add(1) == 10 {
			close(done)
			return NEVER
		}
		return eventtime + 0.001
	}, NOW)
	r.Run()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("periodic timer fired %d times, want 10", count.Load())
	}
}

// TestUnregisterTimer verifies a removed timer stops firing
func TestUnregisterTimer(t *testing.T) {
	r := New()
	defer func() { r.End(); r.Wait() }()

	var count atomic.Int64
	timer := r.RegisterTimer(func(eventtime float64) float64 {
		count.Add(1)
		return eventtime + 0.001
	}, NOW)
	r.Run()

	time.Sleep(50 * time.Millisecond)
	r.UnregisterTimer(timer)
	settled := count.Load()
	time.Sleep(50 * time.Millisecond)

	// One in-flight callback may still land after removal.
	if count.Load() > settled+1 {
		t.Errorf("timer fired %d times after unregister", count.Load()-settled)
	}
}

// TestUpdateTimer verifies rescheduling an idle timer
func TestUpdateTimer(t *testing.T) {
	r := New()
	defer func() { r.End(); r.Wait() }()

	fired := make(chan struct{})
	timer := r.RegisterTimer(func(eventtime float64) float64 {
		close(fired)
		return NEVER
	}, NEVER)
	r.Run()

	select {
	case <-fired:
		t.Fatal("timer fired while scheduled at NEVER")
	case <-time.After(50 * time.Millisecond):
	}

	r.UpdateTimer(timer, NOW)
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired after update")
	}
}

// TestEndStopsDispatch verifies shutdown terminates the loop
func TestEndStopsDispatch(t *testing.T) {
	r := New()
	r.RegisterTimer(func(eventtime float64) float64 {
		return eventtime + 0.001
	}, NOW)
	r.Run()

	time.Sleep(20 * time.Millisecond)
	r.End()

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch loop did not stop")
	}
}

// TestMonotonic verifies the clock moves forward
func TestMonotonic(t *testing.T) {
	r := New()
	a := r.Monotonic()
	time.Sleep(5 * time.Millisecond)
	b := r.Monotonic()
	if b <= a {
		t.Errorf("monotonic time went from %g to %g", a, b)
	}
}
