package hat

// Register offsets, named and valued per spec.md §6's summary table and
// cross-checked against _examples/original_source/wittypi4/__init__.py's
// full I2C_* register list (the two agree: spec.md's hex offsets are the
// same registers the original addresses in decimal).
const (
	regFirmwareID     = 0x00
	regVoltageInI     = 0x01
	regVoltageInD     = 0x02
	regVoltageOutI    = 0x03
	regVoltageOutD    = 0x04
	regCurrentOutI    = 0x05
	regCurrentOutD    = 0x06
	regActionReason   = 0x0B
	regDefaultOn      = 0x11
	regPowerCutDelay  = 0x15
	regAlarm1Second   = 0x1B
	regAlarm1Minute   = 0x1C
	regAlarm1Hour     = 0x1D
	regAlarm1Day      = 0x1E
	regAlarm1Weekday  = 0x1F
	regAlarm2Second   = 0x20
	regAlarm2Minute   = 0x21
	regAlarm2Hour     = 0x22
	regAlarm2Day      = 0x23
	regAlarm2Weekday  = 0x24
	regAlarm1Flag     = 0x27
	regAlarm2Flag     = 0x28
	regDefaultOnDelay = 0x2F
	regLM75TempL      = 0x32 // LM75B raw word, low byte; unrelated to alarm block layout above
	regLM75TempH      = 0x33 // LM75B raw word, high byte
	regRTCCtrl2       = 0x37
	regRTCSeconds     = 0x3A
	regRTCMinutes     = 0x3B
	regRTCHours       = 0x3C
	regRTCDays        = 0x3D
	regRTCWeekdays    = 0x3E
	regRTCMonths      = 0x3F
	regRTCYears       = 0x40
)

// ExpectedFirmwareID is the only firmware revision this driver understands.
// A mismatch is a fatal HardwareError at boot, per spec.md §6/§7.
const ExpectedFirmwareID = 0x26

// rtcCtrl2AlarmFlagMask clears bit 6, the RTC's own alarm-fired flag.
const rtcCtrl2AlarmFlagMask = 0b10111111
