package clocktrust

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wittypi/wittygo/internal/wittyerr"
)

func TestLastKnownTime_NoSourcesIsFatal(t *testing.T) {
	dir := t.TempDir()
	s := Sources{
		FakeHWClockFile: filepath.Join(dir, "missing-a"),
		TimesyncClock:   filepath.Join(dir, "missing-b"),
		ChronyDriftFile: filepath.Join(dir, "missing-c"),
	}

	_, err := LastKnownTime(s)
	require.Error(t, err)
	var noSource *wittyerr.NoClockSource
	assert.ErrorAs(t, err, &noSource)
}

func TestLastKnownTime_TakesMaxOfSources(t *testing.T) {
	dir := t.TempDir()

	fake := filepath.Join(dir, "fake-hwclock.data")
	require.NoError(t, os.WriteFile(fake, []byte("2024-01-01 00:00:00\n"), 0o644))

	timesync := filepath.Join(dir, "clock")
	require.NoError(t, os.WriteFile(timesync, []byte{}, 0o644))
	recent := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(timesync, recent, recent))

	s := Sources{
		FakeHWClockFile: fake,
		TimesyncClock:   timesync,
		ChronyDriftFile: filepath.Join(dir, "missing"),
	}

	got, err := LastKnownTime(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(recent), "got %v want %v", got, recent)
}

func TestValidate_RTCBeforeLastKnownIsFatal(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake-hwclock.data")
	require.NoError(t, os.WriteFile(fake, []byte("2024-06-01 00:00:00\n"), 0o644))

	s := Sources{FakeHWClockFile: fake, SynchronizedFile: filepath.Join(dir, "synchronized")}

	rtcNow := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	systemNow := rtcNow

	err := Validate(s, rtcNow, systemNow)
	require.Error(t, err)
	var clockErr *wittyerr.ClockTrustError
	assert.ErrorAs(t, err, &clockErr)
}

func TestValidate_SkewTooLargeIsFatal(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake-hwclock.data")
	require.NoError(t, os.WriteFile(fake, []byte("2024-01-01 00:00:00\n"), 0o644))

	s := Sources{FakeHWClockFile: fake, SynchronizedFile: filepath.Join(dir, "synchronized")}

	rtcNow := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	systemNow := rtcNow.Add(10 * time.Second)

	err := Validate(s, rtcNow, systemNow)
	require.Error(t, err)
}

func TestValidate_SuccessTouchesSynchronizedFile(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake-hwclock.data")
	require.NoError(t, os.WriteFile(fake, []byte("2024-01-01 00:00:00\n"), 0o644))

	syncFile := filepath.Join(dir, "run", "synchronized")
	s := Sources{FakeHWClockFile: fake, SynchronizedFile: syncFile}

	rtcNow := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	systemNow := rtcNow.Add(time.Second)

	require.NoError(t, Validate(s, rtcNow, systemNow))
	_, err := os.Stat(syncFile)
	require.NoError(t, err)
}
