//go:build !linux
// +build !linux

package main

import (
	"time"

	"github.com/wittypi/wittygo/internal/hat"
)

func openDevice(busName string, addr uint16, tz *time.Location) (hat.Device, error) {
	return hat.NewMock(time.Now()), nil
}
