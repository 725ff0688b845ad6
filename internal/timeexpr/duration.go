package timeexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses the <duration> grammar of spec.md §4.1: either
// "HH:MM" or anything time.ParseDuration accepts ("90m", "1h30m", ...).
// Seconds are always discarded — the result is truncated to whole minutes,
// matching the original daemon's pytimeparse(granularity="minutes") call.
//
// No corresponding third-party parser exists in the example pack (see
// DESIGN.md); time.ParseDuration plus a small HH:MM branch is the idiomatic
// stdlib equivalent and mirrors how the teacher repo parses durations
// elsewhere (pkg/nodes/core/delay.go's use of time.ParseDuration).
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if d, ok := parseClock(s); ok {
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unrecognized duration %q: %w", s, err)
	}
	return d.Truncate(time.Minute), nil
}

// parseClock parses "HH:MM", allowing an optional leading sign so that
// "-01:00" and "+01:00" both work as offsets.
func parseClock(s string) (time.Duration, bool) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if neg {
		d = -d
	}
	return d, true
}
