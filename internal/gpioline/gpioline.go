// Package gpioline implements component C11: the GPIO-visible side channel
// the HAT exposes alongside its I2C register interface — a SYS_UP output
// the host drives once it has validated the clock and loaded the schedule,
// a HALT input the HAT can pull low as a secondary shutdown request, and
// two read-only charge-status inputs readable through ReadChargeStatus (the
// daemon does not read them, and telemetry samples do not carry them).
//
// Built on github.com/stianeikeland/go-rpio/v4, the same library
// _examples/EdgxCloud-EdgeFlow/internal/hal/rpi.go uses for GPIO, with no
// build tag split: the module-level replace directive in go.mod substitutes
// the no-op stub in stub/rpio for every build, Linux included, matching
// rpi.go's own portability approach. With that stub, pin reads are always
// low and pin writes have no effect.
package gpioline

import (
	"context"
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Pin numbers are BCM GPIO numbers, grounded on
// _examples/original_source/wittypi4/__init__.py's HALT_PIN/SYSUP_PIN/
// CHRG_PIN/STDBY_PIN constants.
const (
	HaltPin  = 4
	SysUpPin = 17
	ChrgPin  = 5
	StdbyPin = 6
)

// haltPollInterval is how often WatchHalt samples the halt line. The HAT's
// own alarm path is the primary shutdown mechanism; this is a secondary,
// best-effort signal, so sub-second polling is unnecessary.
const haltPollInterval = 500 * time.Millisecond

// Lines is the GPIO side channel surface the control loop consumes.
type Lines interface {
	Open() error
	SetSysUp(bool) error
	ReadChargeStatus() (charging bool, standby bool, err error)
	WatchHalt(ctx context.Context, onFalling func()) error
	Close() error
}

// RPIOLines is the real implementation, backed by go-rpio.
type RPIOLines struct {
	halt  rpio.Pin
	sysUp rpio.Pin
	chrg  rpio.Pin
	stdby rpio.Pin
}

func NewRPIOLines() *RPIOLines {
	return &RPIOLines{
		halt:  rpio.Pin(HaltPin),
		sysUp: rpio.Pin(SysUpPin),
		chrg:  rpio.Pin(ChrgPin),
		stdby: rpio.Pin(StdbyPin),
	}
}

func (l *RPIOLines) Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("gpioline: opening GPIO: %w", err)
	}
	l.sysUp.Output()
	l.sysUp.Low()
	l.halt.Input()
	l.halt.PullUp()
	l.chrg.Input()
	l.stdby.Input()
	return nil
}

// SetSysUp drives SYS_UP, signaling the HAT that the host has validated the
// clock and loaded the schedule and is ready to be considered "up".
func (l *RPIOLines) SetSysUp(up bool) error {
	if up {
		l.sysUp.High()
	} else {
		l.sysUp.Low()
	}
	return nil
}

func (l *RPIOLines) ReadChargeStatus() (charging bool, standby bool, err error) {
	return l.chrg.Read() == rpio.High, l.stdby.Read() == rpio.High, nil
}

// WatchHalt polls HALT_PIN every haltPollInterval and invokes onFalling on
// the first poll that sees it go from high to low, until ctx is canceled.
func (l *RPIOLines) WatchHalt(ctx context.Context, onFalling func()) error {
	ticker := time.NewTicker(haltPollInterval)
	defer ticker.Stop()

	prev := l.halt.Read()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur := l.halt.Read()
			if prev == rpio.High && cur == rpio.Low {
				onFalling()
			}
			prev = cur
		}
	}
}

func (l *RPIOLines) Close() error {
	return rpio.Close()
}
