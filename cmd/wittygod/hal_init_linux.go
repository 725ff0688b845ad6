//go:build linux
// +build linux

package main

import (
	"fmt"
	"time"

	"github.com/wittypi/wittygo/internal/gpioline"
	"github.com/wittypi/wittygo/internal/hat"
)

// openDevice opens the real I2C-backed HAT on Linux. There is no Mock
// fallback here, unlike the GPIO side channel below: a daemon that can't
// reach its own power-management HAT has nothing useful left to do, so a
// failure here is always fatal (exit 1, per spec.md §6).
func openDevice(busName string, addr uint16, tz *time.Location) (hat.Device, error) {
	dev, err := hat.Open(busName, addr, tz)
	if err != nil {
		return nil, fmt.Errorf("opening HAT on %s: %w", busName, err)
	}
	return dev, nil
}

// openLines opens the GPIO side channel (SYS_UP, HALT, charge/standby
// status). Unlike the HAT itself, this channel is a convenience, not the
// daemon's reason for existing, so a failure opening it is logged by the
// daemon, which runs on without it.
func openLines() gpioline.Lines {
	return gpioline.NewRPIOLines()
}
