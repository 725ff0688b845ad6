//go:build linux
// +build linux

package hat

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// periphBus adapts a periph.io i2c.BusCloser to this package's minimal bus
// interface. Grounded on _examples/EdgxCloud-EdgeFlow/internal/hal/rpi.go's
// I2CBusWrapper, which does the same Tx-based adaptation for its own HAL.
type periphBus struct {
	b i2c.BusCloser
}

func (p *periphBus) ReadReg(addr uint16, reg byte) (byte, error) {
	var out [1]byte
	if err := p.b.Tx(addr, []byte{reg}, out[:]); err != nil {
		return 0, fmt.Errorf("i2c read reg 0x%02x: %w", reg, err)
	}
	return out[0], nil
}

func (p *periphBus) WriteReg(addr uint16, reg byte, value byte) error {
	if err := p.b.Tx(addr, []byte{reg, value}, nil); err != nil {
		return fmt.Errorf("i2c write reg 0x%02x: %w", reg, err)
	}
	return nil
}

func (p *periphBus) Close() error { return p.b.Close() }

// Open opens the real I2C bus named "bus" (e.g. "1" for /dev/i2c-1) and
// probes the HAT at addr, returning a ready-to-use Device.
func Open(busName string, addr uint16, tz *time.Location) (Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %s: %w", busName, err)
	}
	return newI2CDevice(&periphBus{b: b}, addr, tz)
}
