package schedule

import (
	"time"

	"go.uber.org/zap"
)

// maxShutdownHorizon bounds the next_shutdown sweep: if no combination of
// entries produces a gap within this horizon, the host is treated as
// scheduled to stay on indefinitely. Matches the original daemon's
// "next_ts - now >= 1 day" bailout.
const maxShutdownHorizon = 24 * time.Hour

// ScheduleConfiguration is component C4: the aggregation of every
// configured ScheduleEntry plus, when present, the synthetic ButtonEntry
// injected for the current boot.
type ScheduleConfiguration struct {
	entries []Entry
	forceOn bool
	log     *zap.SugaredLogger
}

// NewScheduleConfiguration builds the aggregate. forceOn mirrors the
// schedule document's top-level "force_on" switch (§4.4): when set the host
// never shuts down regardless of what the entries say. log may be nil; a
// nil logger silently drops the warnings a malfunctioning entry would
// otherwise emit.
func NewScheduleConfiguration(entries []Entry, forceOn bool, log *zap.SugaredLogger) *ScheduleConfiguration {
	return &ScheduleConfiguration{entries: entries, forceOn: forceOn, log: log}
}

// SetForceOn overrides the force_on switch, for the CLI's --force/--no-force
// flag (spec.md §6): true forces the host on regardless of what the
// document's entries or its own force_on say.
func (c *ScheduleConfiguration) SetForceOn(v bool) {
	c.forceOn = v
}

// Inject appends an entry to the configuration. Used once at boot (C6's
// LOAD_SC step) to add a synthetic ButtonEntry; per spec.md §9 the entry
// list is append-only after construction, never otherwise mutated.
func (c *ScheduleConfiguration) Inject(e Entry) {
	c.entries = append(c.entries, e)
}

// Entries returns the configured entries, including any injected
// ButtonEntry.
func (c *ScheduleConfiguration) Entries() []Entry {
	return c.entries
}

func (c *ScheduleConfiguration) warn(entry string, op string, err error) {
	if c.log != nil {
		c.log.Warnw("schedule entry evaluation failed", "entry", entry, "op", op, "err", err)
	}
}

// Active reports whether the host should be powered on right now: forced,
// or because at least one entry's window currently covers now.
func (c *ScheduleConfiguration) Active(now time.Time) bool {
	if c.forceOn {
		return true
	}
	for _, e := range c.entries {
		active, err := e.Active(now)
		if err != nil {
			c.warn(e.Name(), "active", err)
			continue
		}
		if active {
			return true
		}
	}
	return false
}

// NextStartup returns the earliest future instant at which any entry would
// turn the host on, or nil if none of the entries has a future start (a
// schedule made only of ButtonEntry/force_on, or an empty schedule).
func (c *ScheduleConfiguration) NextStartup(now time.Time) *time.Time {
	var earliest *time.Time
	for _, e := range c.entries {
		ts, err := e.NextStart(now)
		if err != nil {
			c.warn(e.Name(), "next_start", err)
			continue
		}
		if ts == nil {
			continue
		}
		if earliest == nil || ts.Before(*earliest) {
			earliest = ts
		}
	}
	return earliest
}

// NextShutdown returns the next instant at which every entry has stopped
// covering now simultaneously, or nil if force_on is set or the schedule
// covers the next 24h solid. If now isn't currently covered by anything, the
// sweep never advances and now itself is returned.
//
// This is a fixed-point sweep grounded on
// _examples/original_source/wittypi4/__init__.py's ScheduleConfiguration.next_shutdown:
// repeatedly advance a candidate instant to the nearest upcoming stop of any
// entry, re-checking aggregate activity at the new candidate, until either
// activity lapses (return the candidate) or the 24h horizon is exceeded
// (return nil). Each entry's next_stop is evaluated unconditionally — not
// gated on that single entry's own active state — because the candidate
// must account for every entry's stop in turn regardless of which entry
// happens to be covering "now" versus the advancing candidate.
func (c *ScheduleConfiguration) NextShutdown(now time.Time) *time.Time {
	if c.forceOn {
		return nil
	}

	t := now
	for c.Active(t) {
		var candidate *time.Time
		for _, e := range c.entries {
			ts, err := e.NextStop(t)
			if err != nil {
				c.warn(e.Name(), "next_stop", err)
				continue
			}
			if ts == nil || !ts.After(now) {
				continue
			}
			if candidate == nil || ts.Before(*candidate) {
				candidate = ts
			}
		}
		if candidate == nil {
			return nil
		}
		if candidate.Sub(now) >= maxShutdownHorizon {
			return nil
		}
		t = *candidate
	}
	return &t
}
