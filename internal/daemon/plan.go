package daemon

import (
	"time"

	"github.com/wittypi/wittygo/internal/alarm"
	"github.com/wittypi/wittygo/internal/hat"
	"github.com/wittypi/wittygo/internal/schedule"
)

// tickPlan is what one tick decides to do, computed as a pure function of
// the schedule and the current RTC reading so it can be tested without a
// HAT. Applying it (writing the alarm registers, invoking the shutdown
// command) is the daemon's job, not this function's.
type tickPlan struct {
	Active      bool
	Alarm1      alarm.Fields // next_startup, or Fields{} (disabled) if none
	Alarm2      alarm.Fields // next_shutdown, or the "not active" override
	ShutdownNow bool         // reconciliation: alarm already fired, host still up
}

// planTick implements the per-tick invariants of the control loop:
// alarm1 always tracks next_startup; alarm2 tracks next_shutdown while
// active, or rtc_now+shutdownDelay while not, so an already-inactive host
// is never left without a scheduled power-off.
//
// reason is the HAT's reported wake/action reason for this tick. If it is
// shutdown-class (ALARM_SHUTDOWN, LOW_VOLTAGE, OVER_TEMPERATURE) but the
// schedule says the host should still be active, the HAT's own alarm
// already fired while the host kept running — the plan asks the caller to
// invoke the external shutdown command to reconcile that race.
func planTick(sc *schedule.ScheduleConfiguration, now time.Time, shutdownDelay time.Duration, reason hat.ActionReason) tickPlan {
	var plan tickPlan
	plan.Active = sc.Active(now)

	if startup := sc.NextStartup(now); startup != nil {
		plan.Alarm1 = alarm.Project(*startup)
	}

	if plan.Active {
		if shutdown := sc.NextShutdown(now); shutdown != nil {
			plan.Alarm2 = alarm.Project(*shutdown)
		}
		plan.ShutdownNow = reason.ShutdownClass()
	} else {
		plan.Alarm2 = alarm.Project(now.Add(shutdownDelay))
	}

	return plan
}
