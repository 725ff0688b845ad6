//go:build !linux
// +build !linux

package hat

import (
	"fmt"
	"time"
)

// Open is unavailable on non-Linux platforms: periph.io's i2creg/host
// registries only back actual Linux I2C character devices. Callers outside
// Linux (development machines, CI) use Mock instead, mirroring the
// teacher's hal_init_other.go fallback to a mock HAL.
func Open(busName string, addr uint16, tz *time.Location) (Device, error) {
	return nil, fmt.Errorf("hat: real I2C device unavailable on this platform, use hat.NewMock instead")
}
