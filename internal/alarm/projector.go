package alarm

import "time"

// maxDayAdvance bounds the combined weekday/day advancing stages of
// Reconstruct, per spec.md §4.5. A malformed or contradictory field
// combination (e.g. a weekday that the day-of-month can never land on in
// the same iteration) would otherwise spin forever; 400 days is generous
// headroom beyond any real schedule while still terminating quickly.
const maxDayAdvance = 400

// Project converts a future wake instant into the register fields the HAT
// compares its running clock against. Weekday is deliberately wildcarded:
// the HAT triggers on the next matching (day, hour, minute, second), and
// including weekday would over-constrain a specific calendar day to also
// fall on a specific weekday, which it already does by construction.
func Project(target time.Time) Fields {
	return Fields{
		Day:     byte(target.Day()),
		Weekday: WildcardField,
		Hour:    byte(target.Hour()),
		Minute:  byte(target.Minute()),
		Second:  byte(target.Second()),
	}
}

// Reconstruct recovers the datetime a set of alarm fields refers to,
// relative to the RTC's current reading. Returns nil if the fields encode
// "no alarm" (all wildcarded, or day disabled), or if no matching instant
// is found within the bounded search.
//
// The search advances the smallest unit first — seconds, then minutes,
// then hours, then weekday, then day of month — mirroring the HAT's own
// alarm-matching precedence: the next instant at which every non-wildcard
// field agrees simultaneously. If rtcNow already matches, it is returned
// unchanged with no iteration.
func Reconstruct(fields Fields, rtcNow time.Time) *time.Time {
	if fields.Disabled() {
		return nil
	}

	ts := rtcNow

	for i := 0; i < 60 && !matches(fields.Second, ts.Second()); i++ {
		ts = ts.Add(time.Second)
	}
	if !matches(fields.Second, ts.Second()) {
		return nil
	}

	for i := 0; i < 60 && !matches(fields.Minute, ts.Minute()); i++ {
		ts = ts.Add(time.Minute)
	}
	if !matches(fields.Minute, ts.Minute()) {
		return nil
	}

	for i := 0; i < 24 && !matches(fields.Hour, ts.Hour()); i++ {
		ts = ts.Add(time.Hour)
	}
	if !matches(fields.Hour, ts.Hour()) {
		return nil
	}

	dayAdvances := 0
	for !matches(fields.Weekday, int(ts.Weekday())) {
		if dayAdvances >= maxDayAdvance {
			return nil
		}
		ts = ts.AddDate(0, 0, 1)
		dayAdvances++
	}

	for !matches(fields.Day, ts.Day()) {
		if dayAdvances >= maxDayAdvance {
			return nil
		}
		ts = ts.AddDate(0, 0, 1)
		dayAdvances++
	}

	return &ts
}
