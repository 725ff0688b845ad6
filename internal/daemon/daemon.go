// Package daemon implements component C6: the supervisory control loop
// that ties the schedule core to the HAT. State machine:
//
//	VALIDATE -> CONFIGURE -> LOAD_SC -> (TICK)* -> TERMINATE
//
// VALIDATE (clock trust) and the initial RTC read happen before a Daemon
// is even constructed — see cmd/wittygod, which runs internal/clocktrust
// first and only builds a Daemon once the RTC is trusted.
package daemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wittypi/wittygo/internal/alarm"
	"github.com/wittypi/wittygo/internal/gpioline"
	"github.com/wittypi/wittygo/internal/hat"
	"github.com/wittypi/wittygo/internal/history"
	"github.com/wittypi/wittygo/internal/schedule"
	"github.com/wittypi/wittygo/internal/telemetry"
)

// defaultOnDelaySeconds and the power-cut delay range are the CONFIGURE
// step's fixed values, per spec.md §4.6.
const (
	defaultOnDelaySeconds  = 1
	minPowerCutDelayTenths = 25
	maxPowerCutDelayTenths = 30
	defaultShutdownDelay   = 30 * time.Second
	defaultTickPeriod      = 60 * time.Second
)

// Config wires a Daemon to its HAT, schedule, and optional sinks.
type Config struct {
	Device   hat.Device
	Lines    gpioline.Lines // nil disables the GPIO side channel
	Schedule *schedule.ScheduleConfiguration
	// ButtonDelay, if set, is how long an injected ButtonEntry (LOAD_SC)
	// holds the host on after a button/voltage-restore/power-connected boot.
	ButtonDelay *time.Duration
	// ShutdownDelay is how long the "not active" alarm2 override looks
	// ahead; defaults to 30s per the control-loop diagram.
	ShutdownDelay time.Duration
	// TickPeriod defaults to 60s.
	TickPeriod time.Duration
	// PowerCutDelayTenths must be in [25,30]; defaults to 30.
	PowerCutDelayTenths byte
	// ShutdownFunc invokes the host's shutdown command, for reconciliation
	// (alarm fired but host still active) and for a HALT line falling edge.
	// TERMINATE does not call it. nil is a no-op, useful in tests.
	ShutdownFunc func() error
	Telemetry    telemetry.Publisher // nil disables publishing
	History      *history.Store      // nil disables event logging
	Log          *zap.SugaredLogger
}

// Daemon runs the control loop once started. The schedule is held behind
// an atomic pointer rather than directly in cfg: internal/scheduledoc's
// file watcher (C10) can hand in a freshly parsed ScheduleConfiguration
// from a goroutine at any time, and the TICK loop must always read a
// complete, internally-consistent one rather than observe a half-updated
// struct.
type Daemon struct {
	cfg Config
	log *zap.SugaredLogger
	sc  atomic.Pointer[schedule.ScheduleConfiguration]
}

func New(cfg Config) *Daemon {
	if cfg.ShutdownDelay == 0 {
		cfg.ShutdownDelay = defaultShutdownDelay
	}
	if cfg.TickPeriod == 0 {
		cfg.TickPeriod = defaultTickPeriod
	}
	if cfg.PowerCutDelayTenths == 0 {
		cfg.PowerCutDelayTenths = maxPowerCutDelayTenths
	}
	if cfg.PowerCutDelayTenths < minPowerCutDelayTenths {
		cfg.PowerCutDelayTenths = minPowerCutDelayTenths
	}
	if cfg.PowerCutDelayTenths > maxPowerCutDelayTenths {
		cfg.PowerCutDelayTenths = maxPowerCutDelayTenths
	}
	if cfg.ShutdownFunc == nil {
		cfg.ShutdownFunc = func() error { return nil }
	}
	d := &Daemon{cfg: cfg, log: cfg.Log}
	d.sc.Store(cfg.Schedule)
	return d
}

// Reload swaps in a freshly loaded schedule, for a hot-reload triggered by
// the schedule document changing on disk. Safe to call concurrently with
// Run's TICK loop.
func (d *Daemon) Reload(sc *schedule.ScheduleConfiguration) {
	d.sc.Store(sc)
	d.logf("daemon: schedule reloaded")
}

func (d *Daemon) schedule() *schedule.ScheduleConfiguration {
	return d.sc.Load()
}

func (d *Daemon) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Infof(format, args...)
	}
}

func (d *Daemon) warnf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Warnf(format, args...)
	}
}

func (d *Daemon) record(kind history.EventKind, detail interface{}) {
	if d.cfg.History == nil {
		return
	}
	if err := d.cfg.History.Record(kind, detail); err != nil {
		d.warnf("daemon: history write failed: %v", err)
	}
}

// configure runs the CONFIGURE step: fixed default-on behavior and a clean
// flag state, so a fresh or recovered HAT always starts from the same
// baseline regardless of its prior configuration.
func (d *Daemon) configure() error {
	if err := d.cfg.Device.SetDefaultOn(true); err != nil {
		return fmt.Errorf("daemon: configure: %w", err)
	}
	if err := d.cfg.Device.SetDefaultOnDelay(defaultOnDelaySeconds); err != nil {
		return fmt.Errorf("daemon: configure: %w", err)
	}
	if err := d.cfg.Device.SetPowerCutDelay(d.cfg.PowerCutDelayTenths); err != nil {
		return fmt.Errorf("daemon: configure: %w", err)
	}
	if err := d.cfg.Device.ClearFlags(); err != nil {
		return fmt.Errorf("daemon: configure: %w", err)
	}
	return nil
}

// loadScheduleCore runs LOAD_SC: if the boot reason is one that should hold
// the host on for a grace period (a physical button press, power coming
// back, or voltage recovering), a synthetic ButtonEntry is appended to the
// schedule so the schedule reads as active and the tick's "not active"
// override does not immediately arm a shutdown alarm.
func (d *Daemon) loadScheduleCore(reason hat.ActionReason, bootInstant time.Time) {
	if !reason.InjectsButton() {
		return
	}
	entry := schedule.NewButtonEntry(bootInstant, d.cfg.ButtonDelay)
	d.schedule().Inject(entry)
	d.logf("daemon: injected button entry for boot reason %s", reason)
}

// Run executes CONFIGURE, LOAD_SC, and then the TICK loop until ctx is
// canceled, at which point it runs TERMINATE and returns.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.configure(); err != nil {
		return err
	}

	bootInstant, err := d.cfg.Device.RTCDateTime()
	if err != nil {
		return fmt.Errorf("daemon: reading boot-time RTC: %w", err)
	}
	reason, err := d.cfg.Device.ActionReason()
	if err != nil {
		return fmt.Errorf("daemon: reading boot action reason: %w", err)
	}
	if !reason.Known() {
		d.warnf("daemon: unrecognized action reason %s, treating as normal", reason)
	}
	d.record(history.EventReason, map[string]string{"reason": reason.String()})

	d.loadScheduleCore(reason, bootInstant)

	if d.cfg.Lines != nil {
		if err := d.cfg.Lines.Open(); err != nil {
			d.warnf("daemon: opening GPIO side channel: %v", err)
		} else {
			defer d.cfg.Lines.Close()
			_ = d.cfg.Lines.SetSysUp(true)
			go d.cfg.Lines.WatchHalt(ctx, func() {
				d.warnf("daemon: HALT_PIN falling edge observed, invoking shutdown command")
				if err := d.cfg.ShutdownFunc(); err != nil {
					d.warnf("daemon: shutdown command failed: %v", err)
				}
			})
		}
	}

	ticker := time.NewTicker(d.cfg.TickPeriod)
	defer ticker.Stop()

	for {
		if err := d.tick(); err != nil {
			d.warnf("daemon: tick failed, will retry next period: %v", err)
		}

		select {
		case <-ctx.Done():
			return d.terminate()
		case <-ticker.C:
		}
	}
}

// tick runs one TICK step: read RTC once, derive a plan, program both
// alarms, and reconcile an already-fired shutdown-class alarm against a
// schedule that still says "active".
func (d *Daemon) tick() error {
	tickLog := d.log
	if tickLog != nil {
		tickLog = tickLog.With("tick_id", uuid.NewString())
	}

	now, err := d.cfg.Device.RTCDateTime()
	if err != nil {
		return hatError("reading RTC", err)
	}
	reason, err := d.cfg.Device.ActionReason()
	if err != nil {
		return hatError("reading action reason", err)
	}

	plan := planTick(d.schedule(), now, d.cfg.ShutdownDelay, reason)

	if err := d.cfg.Device.SetAlarm1(plan.Alarm1); err != nil {
		return hatError("programming alarm1", err)
	}
	if err := d.cfg.Device.SetAlarm2(plan.Alarm2); err != nil {
		return hatError("programming alarm2", err)
	}
	if tickLog != nil {
		tickLog.Infow("tick complete", "now", now, "active", plan.Active,
			"alarm1", plan.Alarm1, "alarm2", plan.Alarm2, "reason", reason.String())
	}
	d.record(history.EventAlarm, map[string]interface{}{
		"alarm1": plan.Alarm1, "alarm2": plan.Alarm2, "active": plan.Active,
	})

	if plan.ShutdownNow {
		d.warnf("daemon: alarm-class reason %s fired but schedule still active, invoking shutdown", reason)
		d.record(history.EventShutdown, map[string]string{"reason": reason.String()})
		if err := d.cfg.ShutdownFunc(); err != nil {
			d.warnf("daemon: shutdown command failed: %v", err)
		}
	}

	d.publishTelemetry(now, reason, plan.Active)
	return nil
}

func (d *Daemon) publishTelemetry(now time.Time, reason hat.ActionReason, active bool) {
	if d.cfg.Telemetry == nil {
		return
	}
	t, err := d.cfg.Device.ReadTelemetry()
	if err != nil {
		d.warnf("daemon: reading telemetry: %v", err)
		return
	}
	d.cfg.Telemetry.Publish(telemetry.Sample{
		Time:        now,
		VoltageIn:   t.VoltageIn,
		VoltageOut:  t.VoltageOut,
		CurrentOut:  t.CurrentOut,
		Temperature: t.Temperature,
		Active:      active,
		Reason:      reason,
	})
}

// terminate runs TERMINATE: clear the shutdown alarm (so the scheduled
// power-off doesn't race the host's own shutdown sequence) and program the
// final startup alarm so the HAT knows when to re-power the board.
func (d *Daemon) terminate() error {
	now, err := d.cfg.Device.RTCDateTime()
	if err != nil {
		return hatError("reading RTC at terminate", err)
	}

	if err := d.cfg.Device.SetAlarm2(alarm.Fields{}); err != nil {
		return hatError("clearing shutdown alarm at terminate", err)
	}

	var startupFields alarm.Fields
	if startup := d.schedule().NextStartup(now); startup != nil {
		startupFields = alarm.Project(*startup)
	}
	if err := d.cfg.Device.SetAlarm1(startupFields); err != nil {
		return hatError("programming final startup alarm", err)
	}

	d.logf("daemon: terminate complete, next startup alarm: %+v", startupFields)
	return nil
}

func hatError(op string, err error) error {
	return fmt.Errorf("daemon: %s: %w", op, err)
}
