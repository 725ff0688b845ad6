// Package clocktrust implements component C7: deciding whether the HAT's
// RTC reading is plausible before the control loop trusts it for anything.
package clocktrust

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wittypi/wittygo/internal/wittyerr"
)

// Sources names the filesystem paths this arbiter consults for "last known
// wall time" and for the synchronized marker it writes on success. All are
// overridable (struct fields, not constants) so tests never touch the real
// filesystem paths.
type Sources struct {
	FakeHWClockFile  string
	TimesyncClock    string
	ChronyDriftFile  string
	SynchronizedFile string
}

// DefaultSources matches spec.md §4.7/§6 exactly.
func DefaultSources() Sources {
	return Sources{
		FakeHWClockFile:  "/etc/fake-hwclock.data",
		TimesyncClock:    "/var/lib/systemd/timesync/clock",
		ChronyDriftFile:  "/var/lib/chrony/chrony.drift",
		SynchronizedFile: "/run/systemd/timesync/synchronized",
	}
}

// maxSkew is the allowed disagreement between the RTC and the system clock
// before the RTC is distrusted, per spec.md §4.7.
const maxSkew = 2 * time.Second

// LastKnownTime returns the maximum of whichever clock hints exist: the
// fake-hwclock text file's recorded instant, and the mtimes of the two NTP
// daemons' state files. Returns NoClockSource if none of the three exist.
func LastKnownTime(s Sources) (time.Time, error) {
	var candidates []time.Time

	if ts, ok := readFakeHWClock(s.FakeHWClockFile); ok {
		candidates = append(candidates, ts)
	}
	if ts, ok := fileMtime(s.TimesyncClock); ok {
		candidates = append(candidates, ts)
	}
	if ts, ok := fileMtime(s.ChronyDriftFile); ok {
		candidates = append(candidates, ts)
	}

	if len(candidates) == 0 {
		return time.Time{}, wittyerr.NewNoClockSource()
	}

	max := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(max) {
			max = c
		}
	}
	return max, nil
}

// readFakeHWClock parses the "YYYY-MM-DD HH:MM:SS\n" UTC timestamp
// fake-hwclock persists across reboots.
func readFakeHWClock(path string) (time.Time, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}
	line := strings.TrimSpace(string(data))
	ts, err := time.Parse("2006-01-02 15:04:05", line)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

func fileMtime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Validate runs the two plausibility checks of spec.md §4.7 and, on
// success, touches SynchronizedFile. rtcNow is the HAT's RTC reading;
// systemNow is the host's own clock at the same instant.
func Validate(s Sources, rtcNow, systemNow time.Time) error {
	lastKnown, err := LastKnownTime(s)
	if err != nil {
		return err
	}

	if rtcNow.Before(lastKnown) {
		return wittyerr.NewClockTrustError(fmt.Sprintf(
			"RTC time %s precedes last known wall time %s", rtcNow, lastKnown))
	}

	skew := rtcNow.Sub(systemNow)
	if skew < 0 {
		skew = -skew
	}
	if skew > maxSkew {
		return wittyerr.NewClockTrustError(fmt.Sprintf(
			"RTC time %s disagrees with system clock %s by %s", rtcNow, systemNow, skew))
	}

	return touch(s.SynchronizedFile)
}

func touch(path string) error {
	if path == "" {
		return nil
	}
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("clocktrust: creating %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("clocktrust: touching %s: %w", path, err)
	}
	now := time.Now()
	_ = os.Chtimes(path, now, now)
	return f.Close()
}

func dirOf(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
