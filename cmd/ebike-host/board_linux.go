//go:build linux

package main

import (
	"github.com/KingQueenWong/ebike-g4/pkg/config"
	"github.com/KingQueenWong/ebike-g4/pkg/hw"
)

// newBoard builds the periph.io-backed board from the resolved config.
// The IIO voltage index of a channel follows its channel number: throttle
// channel N samples in_voltage<N-1>_raw.
func newBoard(ctrlCfg *config.ControllerConfig) (hw.Board, error) {
	cfg := hw.LinuxConfig{
		Vref: float32(ctrlCfg.Vref),
		Pins: make(map[int]hw.LinuxPin),
	}
	for _, cc := range ctrlCfg.Channels {
		cfg.Pins[cc.Channel] = hw.LinuxPin{
			Name:     cc.Pin.Name,
			Pull:     cc.Pin.Pullup,
			IIOIndex: cc.Channel - 1,
		}
	}
	return hw.NewLinuxBoard(cfg)
}
