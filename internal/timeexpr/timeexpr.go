// Package timeexpr implements the time-expression grammar of spec.md §4.1
// (component C1): a string such as "sunrise-01:00" or "05:00" is parsed once
// and becomes a pure function of (date, location, timezone) producing a
// concrete instant.
package timeexpr

import (
	"strings"
	"time"

	"github.com/wittypi/wittygo/internal/sun"
	"github.com/wittypi/wittygo/internal/wittyerr"
)

// Location is the subset of geographic information a relative expression
// needs to resolve a sun event.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Kind distinguishes absolute ("05:00") from relative ("sunrise-01:00")
// expressions.
type Kind int

const (
	Absolute Kind = iota
	Relative
)

// Expression is a frozen time expression: evaluating it is a pure function
// of (date, location, timezone), per spec.md §3's invariant.
type Expression struct {
	raw    string
	kind   Kind
	ref    string        // relative only: "sunrise", "sunset", ...
	offset time.Duration // signed
	loc    *Location     // nil for absolute expressions
}

// Parse builds an Expression from its textual form. loc may be nil only if
// the expression turns out to be absolute; a relative expression with a nil
// location is a ConfigError, per spec.md §4.1.
func Parse(text string, loc *Location) (*Expression, error) {
	text = strings.TrimSpace(text)

	if ref, sign, durStr, ok := splitRelative(text); ok {
		if loc == nil {
			return nil, wittyerr.NewConfigError(
				"relative time expression requires a location: "+text, nil)
		}
		dur, err := ParseDuration(durStr)
		if err != nil {
			return nil, wittyerr.NewConfigError("bad duration in "+text, err)
		}
		if sign < 0 {
			dur = -dur
		}
		return &Expression{raw: text, kind: Relative, ref: ref, offset: dur, loc: loc}, nil
	}

	dur, err := ParseDuration(text)
	if err != nil {
		return nil, wittyerr.NewConfigError("bad absolute time expression "+text, err)
	}
	return &Expression{raw: text, kind: Absolute, offset: dur}, nil
}

// splitRelative recognizes "<ref>+<dur>" / "<ref>-<dur>". The split point is
// the first '+' or '-' in the text; if that sign is the leading or trailing
// character, the text is not relative (a leading sign is left to
// ParseDuration, which accepts a signed "HH:MM").
func splitRelative(text string) (ref string, sign int, durStr string, ok bool) {
	idxPlus := strings.Index(text, "+")
	idxMinus := strings.Index(text, "-")

	idx := -1
	sign = 1
	switch {
	case idxPlus == -1 && idxMinus == -1:
		return "", 0, "", false
	case idxPlus == -1:
		idx, sign = idxMinus, -1
	case idxMinus == -1:
		idx, sign = idxPlus, 1
	case idxPlus < idxMinus:
		idx, sign = idxPlus, 1
	default:
		idx, sign = idxMinus, -1
	}

	if idx <= 0 || idx >= len(text)-1 {
		return "", 0, "", false
	}
	return text[:idx], sign, text[idx+1:], true
}

// Resolve evaluates the expression for the given calendar date, in tz.
func (e *Expression) Resolve(date time.Time, tz *time.Location) (time.Time, error) {
	date = date.In(tz)

	if e.kind == Absolute {
		midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
		return midnight.Add(e.offset), nil
	}

	times, err := sun.Times(sun.Location{
		Latitude:  e.loc.Latitude,
		Longitude: e.loc.Longitude,
	}, date)
	if err != nil {
		return time.Time{}, err
	}

	ref, ok := times[e.ref]
	if !ok {
		return time.Time{}, wittyerr.NewConfigError("unknown sun reference "+e.ref, nil)
	}

	return ref.In(tz).Add(e.offset), nil
}

// String returns the original expression text, for logging.
func (e *Expression) String() string { return e.raw }
