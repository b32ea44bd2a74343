//go:build !linux

package main

import (
	"errors"

	"github.com/KingQueenWong/ebike-g4/pkg/config"
	"github.com/KingQueenWong/ebike-g4/pkg/hw"
)

// Real hardware is only supported on Linux; elsewhere, run with -sim.
func newBoard(ctrlCfg *config.ControllerConfig) (hw.Board, error) {
	return nil, errors.New("hardware boards require linux, use -sim")
}
