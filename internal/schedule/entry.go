// Package schedule implements components C2–C4 of spec.md: a named on/off
// window (ScheduleEntry), the synthetic one-shot entry representing a human
// button press (ButtonEntry), and their aggregation (ScheduleConfiguration).
//
// Both entry kinds satisfy the same Entry interface — a discriminated union
// per spec.md §9's design note, shaped after
// _examples/other_examples/3868669b_Xevion-go-ha__internal-scheduling-daily.go.go's
// Trigger interface — rather than sharing an implementation through
// embedding.
package schedule

import (
	"time"

	"github.com/wittypi/wittygo/internal/timeexpr"
	"github.com/wittypi/wittygo/internal/wittyerr"
)

// maxSearchIterations bounds the day-by-day search spec.md §4.2 describes.
// Astronomical windows may need to step ±2 days around a solstice; absolute
// windows need at most one step. 7 gives headroom without risking the
// "pathological DST / polar region" case spinning forever.
const maxSearchIterations = 7

// Entry is the common contract of spec.md §4.2: five operations over a
// reference instant, each possibly undefined.
type Entry interface {
	Name() string
	NextStart(now time.Time) (*time.Time, error)
	NextStop(now time.Time) (*time.Time, error)
	PrevStart(now time.Time) (*time.Time, error)
	PrevStop(now time.Time) (*time.Time, error)
	Active(now time.Time) (bool, error)
}

// ScheduleEntry is a named on/off window whose endpoints are time
// expressions (absolute or sun-relative).
type ScheduleEntry struct {
	name  string
	start *timeexpr.Expression
	stop  *timeexpr.Expression
	tz    *time.Location
}

// NewScheduleEntry builds an entry from already-parsed start/stop
// expressions. Use timeexpr.Parse to build those, which itself returns a
// ConfigError for a relative expression with no location.
func NewScheduleEntry(name string, start, stop *timeexpr.Expression, tz *time.Location) *ScheduleEntry {
	return &ScheduleEntry{name: name, start: start, stop: stop, tz: tz}
}

func (e *ScheduleEntry) Name() string { return e.name }

func (e *ScheduleEntry) NextStart(now time.Time) (*time.Time, error) {
	return e.search(e.start, now, true)
}

func (e *ScheduleEntry) NextStop(now time.Time) (*time.Time, error) {
	return e.search(e.stop, now, true)
}

func (e *ScheduleEntry) PrevStart(now time.Time) (*time.Time, error) {
	return e.search(e.start, now, false)
}

func (e *ScheduleEntry) PrevStop(now time.Time) (*time.Time, error) {
	return e.search(e.stop, now, false)
}

// Active reports whether the window contains now. A window that crosses
// midnight (start=22:00, stop=05:00) is handled correctly by this
// definition: prev_start lands yesterday 22:00, prev_stop yesterday 05:00,
// and prev_start > prev_stop through the early-morning hours as well as
// after 22:00.
func (e *ScheduleEntry) Active(now time.Time) (bool, error) {
	start, err := e.PrevStart(now)
	if err != nil {
		return false, err
	}
	stop, err := e.PrevStop(now)
	if err != nil {
		return false, err
	}
	return start.After(*stop), nil
}

// search implements the bounded day-stepping resolution of spec.md §4.2:
// forward searches return the smallest resolution strictly after now;
// backward searches return the largest resolution no later than now.
func (e *ScheduleEntry) search(expr *timeexpr.Expression, now time.Time, forward bool) (*time.Time, error) {
	date := now.In(e.tz)

	for i := 0; i < maxSearchIterations; i++ {
		ts, err := expr.Resolve(date, e.tz)
		if err != nil {
			return nil, err
		}

		if forward {
			if ts.After(now) {
				return &ts, nil
			}
			date = date.AddDate(0, 0, 1)
		} else {
			if !ts.After(now) {
				return &ts, nil
			}
			date = date.AddDate(0, 0, -1)
		}
	}

	return nil, wittyerr.NewConfigError(
		"time expression search for "+expr.String()+" did not converge", nil)
}
