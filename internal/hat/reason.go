package hat

import "fmt"

// ActionReason is the HAT's wake-cause enumeration, per spec.md §3. Numeric
// values are part of the wire contract and must not be renumbered.
type ActionReason byte

const (
	ReasonAlarmStartup        ActionReason = 0x01
	ReasonAlarmShutdown       ActionReason = 0x02
	ReasonButtonClick         ActionReason = 0x03
	ReasonLowVoltage          ActionReason = 0x04
	ReasonVoltageRestore      ActionReason = 0x05
	ReasonOverTemperature     ActionReason = 0x06
	ReasonBelowTemperature    ActionReason = 0x07
	ReasonAlarmStartupDelayed ActionReason = 0x08
	ReasonPowerConnected      ActionReason = 0x0A
	ReasonReboot              ActionReason = 0x0B
	ReasonGuaranteedWake      ActionReason = 0x0C
)

var reasonNames = map[ActionReason]string{
	ReasonAlarmStartup:        "alarm-startup",
	ReasonAlarmShutdown:       "alarm-shutdown",
	ReasonButtonClick:         "button-click",
	ReasonLowVoltage:          "low-voltage",
	ReasonVoltageRestore:      "voltage-restore",
	ReasonOverTemperature:     "over-temperature",
	ReasonBelowTemperature:    "below-temperature",
	ReasonAlarmStartupDelayed: "alarm-startup-delayed",
	ReasonPowerConnected:      "power-connected",
	ReasonReboot:              "reboot",
	ReasonGuaranteedWake:      "guaranteed-wake",
}

// String renders the reason name, or "unknown(0xNN)" for a value the
// firmware emits that this driver doesn't recognize. Per spec.md §3:
// unknown values are logged as a warning and treated as "normal" by the
// control loop, not rejected.
func (r ActionReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02X)", byte(r))
}

// Known reports whether this value is one the enumeration defines.
func (r ActionReason) Known() bool {
	_, ok := reasonNames[r]
	return ok
}

// ShutdownClass reports whether this reason demands an immediate shutdown
// regardless of the schedule (spec.md §3: low voltage, over temperature, or
// an alarm firing while the host happens to still be running).
func (r ActionReason) ShutdownClass() bool {
	switch r {
	case ReasonAlarmShutdown, ReasonLowVoltage, ReasonOverTemperature:
		return true
	default:
		return false
	}
}

// InjectsButton reports whether this boot reason should synthesize a
// ButtonEntry in C6's LOAD_SC step, per spec.md §4.6.
func (r ActionReason) InjectsButton() bool {
	switch r {
	case ReasonButtonClick, ReasonVoltageRestore, ReasonPowerConnected:
		return true
	default:
		return false
	}
}
