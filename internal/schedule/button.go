package schedule

import "time"

// ButtonEntry is the synthetic one-shot entry spec.md §4.3 injects after a
// boot caused by a button press or a voltage-restore/power-connect event: it
// keeps the host on for a fixed grace period starting at boot, or
// indefinitely if no grace period is configured.
//
// Grounded on _examples/original_source/wittypi4/__init__.py's ButtonEntry
// class: prev_start is always the boot instant, next_start is always
// undefined (a button press is not a recurring window), and the "stop" side
// is a single instant boot+delay rather than a daily-repeating expression.
type ButtonEntry struct {
	bootInstant time.Time
	delay       *time.Duration
}

// NewButtonEntry builds the synthetic entry. delay is nil when the
// configuration has no grace period, in which case the host is held on
// until some other entry or an explicit shutdown intervenes.
func NewButtonEntry(bootInstant time.Time, delay *time.Duration) *ButtonEntry {
	return &ButtonEntry{bootInstant: bootInstant, delay: delay}
}

func (b *ButtonEntry) Name() string { return "button" }

// NextStart is always undefined: the button window only ever looks
// backward from the boot it was created for.
func (b *ButtonEntry) NextStart(now time.Time) (*time.Time, error) {
	return nil, nil
}

// PrevStart is always the boot instant.
func (b *ButtonEntry) PrevStart(now time.Time) (*time.Time, error) {
	ts := b.bootInstant
	return &ts, nil
}

// end returns boot+delay, or nil if no delay is configured.
func (b *ButtonEntry) end() *time.Time {
	if b.delay == nil {
		return nil
	}
	ts := b.bootInstant.Add(*b.delay)
	return &ts
}

// NextStop returns boot+delay (nil without a delay) regardless of whether
// that instant is still ahead of now, matching the original's next_stop,
// which always reports the grace period's end — callers compare it against
// their own reference instant.
func (b *ButtonEntry) NextStop(now time.Time) (*time.Time, error) {
	return b.end(), nil
}

// PrevStop mirrors NextStop for the backward direction: the same fixed
// instant, since a button entry has exactly one stop, not a recurring one.
func (b *ButtonEntry) PrevStop(now time.Time) (*time.Time, error) {
	return b.end(), nil
}

// Active reports whether the grace period still covers now: true
// unconditionally when no delay is set (held on until something else turns
// it off), else true while now is still short of boot+delay.
func (b *ButtonEntry) Active(now time.Time) (bool, error) {
	end := b.end()
	if end == nil {
		return true, nil
	}
	return now.Before(*end), nil
}
