// Unit tests for controller config resolution
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import "testing"

// TestResolveControllerDefaults verifies firmware defaults fill in
// unspecified options
func TestResolveControllerDefaults(t *testing.T) {
	cfg, err := LoadString("[throttle 1]\ntype: analog\npin: GPIO17\n")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cc, err := ResolveController(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cc.Baud != 115200 {
		t.Errorf("baud = %d, want 115200", cc.Baud)
	}
	if cc.Vref != 3.3 {
		t.Errorf("vref = %g, want 3.3", cc.Vref)
	}
	if len(cc.Channels) != 1 {
		t.Fatalf("channels = %d, want 1", len(cc.Channels))
	}

	ch := cc.Channels[0]
	if ch.Channel != 1 || ch.Type != "analog" {
		t.Errorf("channel = %d type = %q", ch.Channel, ch.Type)
	}
	if ch.StartTime != 1000 || ch.StartDeadtime != 500 {
		t.Errorf("startup window = %d/%d, want 1000/500", ch.StartTime, ch.StartDeadtime)
	}
	if ch.MinDefault != 0.85 || ch.MaxDefault != 2.20 {
		t.Errorf("defaults = %g/%g, want 0.85/2.20", ch.MinDefault, ch.MaxDefault)
	}
	if ch.HystLow != 0.025 || ch.HystHigh != 0.05 {
		t.Errorf("hysteresis = %g/%g, want 0.025/0.05", ch.HystLow, ch.HystHigh)
	}
	if ch.SlewRate != 0.0005 {
		t.Errorf("slew rate = %g, want 0.0005", ch.SlewRate)
	}
	if ch.FilterHz != 2.0 || ch.FilterQ != 0.707 {
		t.Errorf("filter = %g Hz Q %g, want 2.0/0.707", ch.FilterHz, ch.FilterQ)
	}
}

// TestResolveControllerFull verifies explicit settings are honored
func TestResolveControllerFull(t *testing.T) {
	cfg, err := LoadString(`
[controller]
serial: /dev/ttyACM0
baud: 57600
vref: 5.0

[throttle 1]
type: analog
pin: GPIO17
hysteresis_low: 0.03
hysteresis_high: 0.06
slew_rate: 0.001
filter_hz: 5.0

[throttle 2]
type: pas
pin: ^GPIO27
pas_filter: 0.25
pas_scale: 2.0
`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cc, err := ResolveController(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cc.SerialDevice != "/dev/ttyACM0" || cc.Baud != 57600 || cc.Vref != 5.0 {
		t.Errorf("controller = %q/%d/%g", cc.SerialDevice, cc.Baud, cc.Vref)
	}
	if len(cc.Channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(cc.Channels))
	}

	ch1 := cc.Channels[0]
	if ch1.HystLow != 0.03 || ch1.HystHigh != 0.06 || ch1.SlewRate != 0.001 || ch1.FilterHz != 5.0 {
		t.Errorf("throttle 1 overrides not applied: %+v", ch1)
	}

	ch2 := cc.Channels[1]
	if ch2.Type != "pas" || ch2.PASFilter != 0.25 || ch2.PASScale != 2.0 {
		t.Errorf("throttle 2 = %+v", ch2)
	}
	if ch2.Pin.Name != "GPIO27" || ch2.Pin.Pullup != 1 {
		t.Errorf("throttle 2 pin = %+v", ch2.Pin)
	}
}

// TestResolveControllerRejectsBadValues verifies the option bounds
func TestResolveControllerRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad channel number", "[throttle 9]\ntype: analog\npin: GPIO17\n"},
		{"non-numeric channel", "[throttle x]\ntype: analog\npin: GPIO17\n"},
		{"bad type", "[throttle 1]\ntype: dial\npin: GPIO17\n"},
		{"missing pin", "[throttle 1]\ntype: analog\n"},
		{"hysteresis too small", "[throttle 1]\ntype: analog\npin: GPIO17\nhysteresis_low: 0.0001\n"},
		{"hysteresis high below low", "[throttle 1]\ntype: analog\npin: GPIO17\nhysteresis_low: 0.05\nhysteresis_high: 0.03\n"},
		{"filter out of range", "[throttle 1]\ntype: analog\npin: GPIO17\nfilter_hz: 600\n"},
		{"slew too fast", "[throttle 1]\ntype: analog\npin: GPIO17\nslew_rate: 0.5\n"},
		{"deadtime not below start", "[throttle 1]\ntype: analog\npin: GPIO17\nstart_time: 100\nstart_deadtime: 100\n"},
		{"max below min", "[throttle 1]\ntype: analog\npin: GPIO17\nmin_default: 2.0\nmax_default: 1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadString(tt.body)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if _, err := ResolveController(cfg); err == nil {
				t.Error("resolve accepted invalid config")
			}
		})
	}
}

// TestResolveControllerRequiresChannel verifies at least one throttle
// section is required
func TestResolveControllerRequiresChannel(t *testing.T) {
	cfg, _ := LoadString("[controller]\nvref: 3.3\n")
	if _, err := ResolveController(cfg); err == nil {
		t.Error("resolve accepted config without throttle sections")
	}
}
