// Package hat implements component C8: the register-level driver for the
// WittyPi-class power-management HAT, and the Device interface the rest of
// the daemon consumes instead of talking to I2C directly.
package hat

import (
	"time"

	"github.com/wittypi/wittygo/internal/alarm"
)

// Telemetry is a snapshot of the HAT's analog/thermal sensors, used by the
// optional publishers in internal/telemetry (C12).
type Telemetry struct {
	VoltageIn   float64
	VoltageOut  float64
	CurrentOut  float64
	Temperature float64
}

// Device is the concrete HardwareClockView spec.md §3 describes: what the
// control loop (C6) and the alarm projector (C5) need from the HAT,
// independent of whether the bus underneath is real I2C or a test double.
type Device interface {
	FirmwareID() (byte, error)
	RTCDateTime() (time.Time, error)
	SetRTCDateTime(time.Time) error
	ActionReason() (ActionReason, error)

	Alarm1() (alarm.Fields, error)
	SetAlarm1(alarm.Fields) error
	Alarm2() (alarm.Fields, error)
	SetAlarm2(alarm.Fields) error

	ClearFlags() error

	SetDefaultOn(bool) error
	SetDefaultOnDelay(seconds byte) error
	SetPowerCutDelay(tenthsOfSecond byte) error

	ReadTelemetry() (Telemetry, error)

	Close() error
}
