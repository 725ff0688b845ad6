package hat

import (
	"time"

	"github.com/wittypi/wittygo/internal/alarm"
	"github.com/wittypi/wittygo/internal/wittyerr"
)

// I2CDevice is the Device implementation backing real hardware, speaking to
// the HAT over whatever bus the platform-specific opener (i2c_linux.go /
// i2c_other.go) provides. Register offsets, BCD handling, and the firmware
// id check are grounded directly on
// _examples/original_source/wittypi4/__init__.py's WittyPi4 class.
type I2CDevice struct {
	bus  bus
	addr uint16
	tz   *time.Location
}

// newI2CDevice wraps an already-open bus, probing the firmware id
// immediately — a HardwareError here is fatal at boot, per spec.md §7.
func newI2CDevice(b bus, addr uint16, tz *time.Location) (*I2CDevice, error) {
	d := &I2CDevice{bus: b, addr: addr, tz: tz}

	id, err := d.FirmwareID()
	if err != nil {
		return nil, wittyerr.NewHardwareError("reading firmware id", err)
	}
	if id != ExpectedFirmwareID {
		return nil, wittyerr.NewHardwareError(
			"unexpected firmware id", nil)
	}
	return d, nil
}

func (d *I2CDevice) read(reg byte) (byte, error) {
	v, err := d.bus.ReadReg(d.addr, reg)
	if err != nil {
		return 0, wittyerr.NewHardwareError("i2c read", err)
	}
	return v, nil
}

func (d *I2CDevice) write(reg byte, value byte) error {
	if err := d.bus.WriteReg(d.addr, reg, value); err != nil {
		return wittyerr.NewHardwareError("i2c write", err)
	}
	return nil
}

func (d *I2CDevice) FirmwareID() (byte, error) {
	return d.read(regFirmwareID)
}

func (d *I2CDevice) RTCDateTime() (time.Time, error) {
	seconds, err := d.read(regRTCSeconds)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := d.read(regRTCMinutes)
	if err != nil {
		return time.Time{}, err
	}
	hours, err := d.read(regRTCHours)
	if err != nil {
		return time.Time{}, err
	}
	days, err := d.read(regRTCDays)
	if err != nil {
		return time.Time{}, err
	}
	months, err := d.read(regRTCMonths)
	if err != nil {
		return time.Time{}, err
	}
	years, err := d.read(regRTCYears)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		2000+alarm.DecodeBCD(years),
		time.Month(alarm.DecodeBCD(months)),
		alarm.DecodeBCD(days),
		alarm.DecodeBCD(hours),
		alarm.DecodeBCD(minutes),
		alarm.DecodeBCD(seconds),
		0, d.tz,
	), nil
}

func (d *I2CDevice) SetRTCDateTime(ts time.Time) error {
	ts = ts.In(d.tz)
	writes := []struct {
		reg   byte
		value int
	}{
		{regRTCYears, ts.Year() - 2000},
		{regRTCMonths, int(ts.Month())},
		{regRTCWeekdays, int(ts.Weekday())},
		{regRTCDays, ts.Day()},
		{regRTCHours, ts.Hour()},
		{regRTCMinutes, ts.Minute()},
		{regRTCSeconds, ts.Second()},
	}
	for _, w := range writes {
		if err := d.write(w.reg, alarm.EncodeBCD(w.value)); err != nil {
			return err
		}
	}
	return nil
}

func (d *I2CDevice) ActionReason() (ActionReason, error) {
	v, err := d.read(regActionReason)
	if err != nil {
		return 0, err
	}
	return ActionReason(v), nil
}

func (d *I2CDevice) readAlarm(secondReg, minuteReg, hourReg, dayReg, weekdayReg byte) (alarm.Fields, error) {
	second, err := d.read(secondReg)
	if err != nil {
		return alarm.Fields{}, err
	}
	minute, err := d.read(minuteReg)
	if err != nil {
		return alarm.Fields{}, err
	}
	hour, err := d.read(hourReg)
	if err != nil {
		return alarm.Fields{}, err
	}
	day, err := d.read(dayReg)
	if err != nil {
		return alarm.Fields{}, err
	}
	weekday, err := d.read(weekdayReg)
	if err != nil {
		return alarm.Fields{}, err
	}

	return alarm.Fields{
		Second:  decodeField(second),
		Minute:  decodeField(minute),
		Hour:    decodeField(hour),
		Day:     decodeField(day),
		Weekday: decodeField(weekday),
	}, nil
}

func (d *I2CDevice) writeAlarm(f alarm.Fields, secondReg, minuteReg, hourReg, dayReg, weekdayReg byte) error {
	writes := []struct {
		reg   byte
		value byte
	}{
		{secondReg, encodeField(f.Second)},
		{minuteReg, encodeField(f.Minute)},
		{hourReg, encodeField(f.Hour)},
		{dayReg, encodeField(f.Day)},
		{weekdayReg, encodeField(f.Weekday)},
	}
	for _, w := range writes {
		if err := d.write(w.reg, w.value); err != nil {
			return err
		}
	}
	return nil
}

// decodeField BCD-decodes a raw register value unless it's the 80 decimal
// wildcard sentinel, which is stored and compared verbatim, not
// BCD-encoded, per spec.md §6.
func decodeField(reg byte) byte {
	if reg == alarm.WildcardField {
		return alarm.WildcardField
	}
	return byte(alarm.DecodeBCD(reg))
}

func encodeField(value byte) byte {
	if value == alarm.WildcardField {
		return alarm.WildcardField
	}
	return alarm.EncodeBCD(int(value))
}

func (d *I2CDevice) Alarm1() (alarm.Fields, error) {
	return d.readAlarm(regAlarm1Second, regAlarm1Minute, regAlarm1Hour, regAlarm1Day, regAlarm1Weekday)
}

func (d *I2CDevice) SetAlarm1(f alarm.Fields) error {
	return d.writeAlarm(f, regAlarm1Second, regAlarm1Minute, regAlarm1Hour, regAlarm1Day, regAlarm1Weekday)
}

func (d *I2CDevice) Alarm2() (alarm.Fields, error) {
	return d.readAlarm(regAlarm2Second, regAlarm2Minute, regAlarm2Hour, regAlarm2Day, regAlarm2Weekday)
}

func (d *I2CDevice) SetAlarm2(f alarm.Fields) error {
	return d.writeAlarm(f, regAlarm2Second, regAlarm2Minute, regAlarm2Hour, regAlarm2Day, regAlarm2Weekday)
}

// ClearFlags clears the RTC's own alarm-fired bit (CTRL2 bit 6) and both
// firmware-side alarm flags, per spec.md §6.
func (d *I2CDevice) ClearFlags() error {
	ctrl2, err := d.read(regRTCCtrl2)
	if err != nil {
		return err
	}
	if err := d.write(regRTCCtrl2, ctrl2&rtcCtrl2AlarmFlagMask); err != nil {
		return err
	}
	if err := d.write(regAlarm1Flag, 0); err != nil {
		return err
	}
	return d.write(regAlarm2Flag, 0)
}

func (d *I2CDevice) SetDefaultOn(on bool) error {
	var v byte
	if on {
		v = 1
	}
	return d.write(regDefaultOn, v)
}

func (d *I2CDevice) SetDefaultOnDelay(seconds byte) error {
	return d.write(regDefaultOnDelay, seconds)
}

func (d *I2CDevice) SetPowerCutDelay(tenthsOfSecond byte) error {
	return d.write(regPowerCutDelay, tenthsOfSecond)
}

func (d *I2CDevice) ReadTelemetry() (Telemetry, error) {
	viI, err := d.read(regVoltageInI)
	if err != nil {
		return Telemetry{}, err
	}
	viD, err := d.read(regVoltageInD)
	if err != nil {
		return Telemetry{}, err
	}
	voI, err := d.read(regVoltageOutI)
	if err != nil {
		return Telemetry{}, err
	}
	voD, err := d.read(regVoltageOutD)
	if err != nil {
		return Telemetry{}, err
	}
	ciI, err := d.read(regCurrentOutI)
	if err != nil {
		return Telemetry{}, err
	}
	ciD, err := d.read(regCurrentOutD)
	if err != nil {
		return Telemetry{}, err
	}
	tempL, err := d.read(regLM75TempL)
	if err != nil {
		return Telemetry{}, err
	}
	tempH, err := d.read(regLM75TempH)
	if err != nil {
		return Telemetry{}, err
	}

	return Telemetry{
		VoltageIn:   float64(viI) + float64(viD)/100,
		VoltageOut:  float64(voI) + float64(voD)/100,
		CurrentOut:  float64(ciI) + float64(ciD)/100,
		Temperature: float64(int16(uint16(tempL)|uint16(tempH)<<8)) / 256,
	}, nil
}

func (d *I2CDevice) Close() error {
	return d.bus.Close()
}
