//go:build linux
// +build linux

package main

import (
	"fmt"
	"time"

	"github.com/wittypi/wittygo/internal/hat"
)

func openDevice(busName string, addr uint16, tz *time.Location) (hat.Device, error) {
	dev, err := hat.Open(busName, addr, tz)
	if err != nil {
		return nil, fmt.Errorf("opening HAT on %s: %w", busName, err)
	}
	return dev, nil
}
