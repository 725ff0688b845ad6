package hat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wittypi/wittygo/internal/alarm"
)

// fakeBus is an in-memory register file backing I2CDevice in tests, so the
// BCD/offset wiring in i2c.go is exercised without real hardware.
type fakeBus struct {
	regs   map[byte]byte
	closed bool
}

func newFakeBus() *fakeBus {
	b := &fakeBus{regs: make(map[byte]byte)}
	b.regs[regFirmwareID] = ExpectedFirmwareID
	return b
}

func (b *fakeBus) ReadReg(addr uint16, reg byte) (byte, error) {
	return b.regs[reg], nil
}

func (b *fakeBus) WriteReg(addr uint16, reg byte, value byte) error {
	b.regs[reg] = value
	return nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func TestNewI2CDevice_FirmwareMismatchIsFatal(t *testing.T) {
	b := newFakeBus()
	b.regs[regFirmwareID] = 0x01

	_, err := newI2CDevice(b, 0x08, time.UTC)
	require.Error(t, err)
}

func TestI2CDevice_RTCRoundTrip(t *testing.T) {
	b := newFakeBus()
	d, err := newI2CDevice(b, 0x08, time.UTC)
	require.NoError(t, err)

	want := time.Date(2024, time.March, 15, 7, 42, 30, 0, time.UTC)
	require.NoError(t, d.SetRTCDateTime(want))

	got, err := d.RTCDateTime()
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestI2CDevice_AlarmRoundTripWithWildcard(t *testing.T) {
	b := newFakeBus()
	d, err := newI2CDevice(b, 0x08, time.UTC)
	require.NoError(t, err)

	f := alarm.Fields{Day: 15, Weekday: alarm.WildcardField, Hour: 7, Minute: 42, Second: 30}
	require.NoError(t, d.SetAlarm1(f))

	got, err := d.Alarm1()
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestI2CDevice_ClearFlags(t *testing.T) {
	b := newFakeBus()
	b.regs[regRTCCtrl2] = 0b11111111
	b.regs[regAlarm1Flag] = 1
	b.regs[regAlarm2Flag] = 1

	d, err := newI2CDevice(b, 0x08, time.UTC)
	require.NoError(t, err)

	require.NoError(t, d.ClearFlags())
	assert.Equal(t, byte(0b10111111), b.regs[regRTCCtrl2])
	assert.Equal(t, byte(0), b.regs[regAlarm1Flag])
	assert.Equal(t, byte(0), b.regs[regAlarm2Flag])
}

func TestI2CDevice_Telemetry(t *testing.T) {
	b := newFakeBus()
	b.regs[regVoltageInI] = 5
	b.regs[regVoltageInD] = 10
	b.regs[regVoltageOutI] = 5
	b.regs[regVoltageOutD] = 5
	b.regs[regCurrentOutI] = 1
	b.regs[regCurrentOutD] = 20
	// 23.5 C as a signed 16-bit LM75B word (23.5 * 256 = 6016 = 0x1780).
	b.regs[regLM75TempL] = 0x80
	b.regs[regLM75TempH] = 0x17

	d, err := newI2CDevice(b, 0x08, time.UTC)
	require.NoError(t, err)

	tel, err := d.ReadTelemetry()
	require.NoError(t, err)
	assert.InDelta(t, 5.10, tel.VoltageIn, 0.001)
	assert.InDelta(t, 5.05, tel.VoltageOut, 0.001)
	assert.InDelta(t, 1.20, tel.CurrentOut, 0.001)
	assert.InDelta(t, 23.5, tel.Temperature, 0.01)
}

func TestI2CDevice_TelemetryNegativeTemperature(t *testing.T) {
	b := newFakeBus()
	// -10 C as a signed 16-bit LM75B word (-10 * 256 = -2560 = 0xF600).
	b.regs[regLM75TempL] = 0x00
	b.regs[regLM75TempH] = 0xF6

	d, err := newI2CDevice(b, 0x08, time.UTC)
	require.NoError(t, err)

	tel, err := d.ReadTelemetry()
	require.NoError(t, err)
	assert.InDelta(t, -10.0, tel.Temperature, 0.01)
}

func TestMock_ImplementsDevice(t *testing.T) {
	var _ Device = NewMock(time.Now())
}

func TestMock_ClearFlagsCounts(t *testing.T) {
	m := NewMock(time.Now())
	require.NoError(t, m.ClearFlags())
	require.NoError(t, m.ClearFlags())
	assert.Equal(t, 2, m.ClearedCount())
}
