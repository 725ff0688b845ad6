//go:build !linux
// +build !linux

package main

import (
	"time"

	"github.com/wittypi/wittygo/internal/gpioline"
	"github.com/wittypi/wittygo/internal/hat"
)

// openDevice has no real I2C bus to reach outside Linux; development and
// tests run against hat.Mock instead.
func openDevice(busName string, addr uint16, tz *time.Location) (hat.Device, error) {
	return hat.NewMock(time.Now()), nil
}

// openLines returns nil: no GPIO side channel off-Linux.
func openLines() gpioline.Lines {
	return nil
}
