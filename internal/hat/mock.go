package hat

import (
	"sync"
	"time"

	"github.com/wittypi/wittygo/internal/alarm"
)

// Mock is an in-memory Device for tests that need a HAT without real
// hardware, mirroring the role
// _examples/EdgxCloud-EdgeFlow/internal/hal/mock.go plays for EdgeFlow.
type Mock struct {
	mu sync.Mutex

	firmwareID   byte
	rtc          time.Time
	reason       ActionReason
	alarm1       alarm.Fields
	alarm2       alarm.Fields
	defaultOn    bool
	onDelay      byte
	cutDelay     byte
	telemetry    Telemetry
	clearedCount int
	closed       bool
}

// NewMock builds a Mock seeded with a plausible firmware id and RTC time,
// so tests don't need to set every field before using it.
func NewMock(rtc time.Time) *Mock {
	return &Mock{
		firmwareID: ExpectedFirmwareID,
		rtc:        rtc,
		reason:     ReasonAlarmStartup,
		alarm1:     alarm.Fields{Weekday: alarm.WildcardField},
		alarm2:     alarm.Fields{Weekday: alarm.WildcardField},
	}
}

func (m *Mock) SetFirmwareID(id byte) { m.mu.Lock(); defer m.mu.Unlock(); m.firmwareID = id }
func (m *Mock) SetReason(r ActionReason) { m.mu.Lock(); defer m.mu.Unlock(); m.reason = r }
func (m *Mock) SetTelemetry(t Telemetry) { m.mu.Lock(); defer m.mu.Unlock(); m.telemetry = t }
func (m *Mock) ClearedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearedCount
}

func (m *Mock) FirmwareID() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.firmwareID, nil
}

func (m *Mock) RTCDateTime() (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rtc, nil
}

func (m *Mock) SetRTCDateTime(ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rtc = ts
	return nil
}

func (m *Mock) ActionReason() (ActionReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reason, nil
}

func (m *Mock) Alarm1() (alarm.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alarm1, nil
}

func (m *Mock) SetAlarm1(f alarm.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alarm1 = f
	return nil
}

func (m *Mock) Alarm2() (alarm.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alarm2, nil
}

func (m *Mock) SetAlarm2(f alarm.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alarm2 = f
	return nil
}

func (m *Mock) ClearFlags() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearedCount++
	return nil
}

func (m *Mock) SetDefaultOn(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultOn = on
	return nil
}

func (m *Mock) SetDefaultOnDelay(seconds byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDelay = seconds
	return nil
}

func (m *Mock) SetPowerCutDelay(tenthsOfSecond byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutDelay = tenthsOfSecond
	return nil
}

func (m *Mock) ReadTelemetry() (Telemetry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.telemetry, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
