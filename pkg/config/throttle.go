// Throttle controller configuration resolution.
//
// Extracts the [controller] section and the per-channel [throttle N]
// sections from an ebike.cfg file into fully validated numeric settings.
// Bounds follow the original firmware's permitted ranges
// (CONFIG_THRT_* variables).

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Throttle option bounds from the original firmware.
var (
	hystMin  = 0.001
	hystMax  = 0.1
	filtMin  = 0.1
	filtMax  = 499.9
	riseMin  = 0.00005 // 5%/s at 1 kHz
	riseMax  = 0.01    // 1000%/s at 1 kHz
	zeroVal  = 0.0
	oneVal   = 1.0
	countMin = 1
)

// ChannelConfig holds the resolved settings for one [throttle N] section.
// Values are plain numerics; the throttle package consumes them without
// further validation.
type ChannelConfig struct {
	Channel int
	Type    string // "analog", "pas" or "none"
	Pin     Pin

	// Calibration
	StartTime     int
	StartDeadtime int
	RangeLimit    float64
	MinDefault    float64
	MaxDefault    float64
	Dropout       float64

	// Output shaping
	HystLow  float64
	HystHigh float64
	SlewRate float64

	// Analog filter
	FilterHz float64
	FilterQ  float64

	// PAS
	PASFilter float64
	PASScale  float64
}

// ControllerConfig holds the host-level settings from [controller].
type ControllerConfig struct {
	SerialDevice string  // downstream motor-control MCU link, empty to disable
	Baud         int
	Vref         float64 // supply reference voltage for simulated boards
	Channels     []*ChannelConfig
}

// ParseControllerConfig loads and resolves an ebike.cfg file.
func ParseControllerConfig(path string) (*ControllerConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ResolveController(cfg)
}

// ResolveController resolves an already parsed Config.
func ResolveController(cfg *Config) (*ControllerConfig, error) {
	cc := &ControllerConfig{Baud: 115200, Vref: 3.3}

	if sec := cfg.GetSectionOptional("controller"); sec != nil {
		var err error
		if cc.SerialDevice, err = sec.Get("serial", ""); err != nil {
			return nil, err
		}
		if cc.Baud, err = sec.GetInt("baud", 115200); err != nil {
			return nil, err
		}
		if cc.Vref, err = sec.GetFloatWithBounds("vref", FloatBounds{Above: &zeroVal}, 3.3); err != nil {
			return nil, err
		}
	}

	for _, sec := range cfg.GetPrefixSections("throttle ") {
		ch, err := resolveChannel(sec)
		if err != nil {
			return nil, err
		}
		cc.Channels = append(cc.Channels, ch)
	}
	if len(cc.Channels) == 0 {
		return nil, ErrMissingSection("throttle 1")
	}
	return cc, nil
}

func resolveChannel(sec *Section) (*ChannelConfig, error) {
	name := sec.GetName()
	numStr := strings.TrimSpace(strings.TrimPrefix(name, "throttle "))
	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 || num > 2 {
		return nil, NewConfigError(name, "", fmt.Sprintf("channel must be 1 or 2, got %q", numStr))
	}

	ch := &ChannelConfig{Channel: num}

	if ch.Type, err = sec.GetChoice("type", []string{"analog", "pas", "none"}, "analog"); err != nil {
		return nil, err
	}
	ch.Type = strings.ToLower(ch.Type)

	// A disabled channel needs no wiring.
	if ch.Type == "none" {
		ch.Pin, _ = sec.GetPin("pin", PinOptions{CanPullup: true}, Pin{})
	} else if ch.Pin, err = sec.GetPin("pin", PinOptions{CanPullup: true}); err != nil {
		return nil, err
	}

	if ch.StartTime, err = sec.GetIntWithBounds("start_time", &countMin, nil, 1000); err != nil {
		return nil, err
	}
	if ch.StartDeadtime, err = sec.GetIntWithBounds("start_deadtime", &countMin, nil, 500); err != nil {
		return nil, err
	}
	if ch.StartDeadtime >= ch.StartTime {
		return nil, ErrOutOfRange(name, "start_deadtime", float64(ch.StartDeadtime),
			"must be below start_time "+strconv.Itoa(ch.StartTime))
	}

	if ch.RangeLimit, err = sec.GetFloatWithBounds("range_limit", FloatBounds{Above: &zeroVal}, 0.05); err != nil {
		return nil, err
	}
	if ch.MinDefault, err = sec.GetFloatWithBounds("min_default", FloatBounds{Above: &zeroVal}, 0.85); err != nil {
		return nil, err
	}
	if ch.MaxDefault, err = sec.GetFloatWithBounds("max_default", FloatBounds{Above: &ch.MinDefault}, 2.20); err != nil {
		return nil, err
	}
	if ch.Dropout, err = sec.GetFloatWithBounds("dropout", FloatBounds{MinVal: &zeroVal}, 0.72); err != nil {
		return nil, err
	}

	if ch.HystLow, err = sec.GetFloatWithBounds("hysteresis_low", FloatBounds{MinVal: &hystMin, MaxVal: &hystMax}, 0.025); err != nil {
		return nil, err
	}
	if ch.HystHigh, err = sec.GetFloatWithBounds("hysteresis_high", FloatBounds{MinVal: &ch.HystLow, MaxVal: &hystMax}, 0.05); err != nil {
		return nil, err
	}
	if ch.SlewRate, err = sec.GetFloatWithBounds("slew_rate", FloatBounds{MinVal: &riseMin, MaxVal: &riseMax}, 0.0005); err != nil {
		return nil, err
	}

	if ch.FilterHz, err = sec.GetFloatWithBounds("filter_hz", FloatBounds{MinVal: &filtMin, MaxVal: &filtMax}, 2.0); err != nil {
		return nil, err
	}
	if ch.FilterQ, err = sec.GetFloatWithBounds("filter_q", FloatBounds{Above: &zeroVal}, 0.707); err != nil {
		return nil, err
	}

	if ch.PASFilter, err = sec.GetFloatWithBounds("pas_filter", FloatBounds{Above: &zeroVal, MaxVal: &oneVal}, 0.125); err != nil {
		return nil, err
	}
	if ch.PASScale, err = sec.GetFloatWithBounds("pas_scale", FloatBounds{Above: &zeroVal}, 1.0); err != nil {
		return nil, err
	}

	return ch, nil
}
