package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wittypi/wittygo/internal/hat"
	"github.com/wittypi/wittygo/internal/schedule"
	"github.com/wittypi/wittygo/internal/timeexpr"
)

func mustEntry(t *testing.T, name, start, stop string) schedule.Entry {
	t.Helper()
	s, err := timeexpr.Parse(start, nil)
	require.NoError(t, err)
	e, err := timeexpr.Parse(stop, nil)
	require.NoError(t, err)
	return schedule.NewScheduleEntry(name, s, e, time.UTC)
}

func TestPlanTick_ActiveSchedulesNextShutdown(t *testing.T) {
	sc := schedule.NewScheduleConfiguration(
		[]schedule.Entry{mustEntry(t, "s1", "00:00", "02:00")}, false, nil)

	now := time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)
	plan := planTick(sc, now, 30*time.Second, hat.ReasonAlarmStartup)

	assert.True(t, plan.Active)
	assert.False(t, plan.Alarm2.Disabled())
	assert.Equal(t, byte(2), plan.Alarm2.Hour)
	assert.False(t, plan.ShutdownNow)
}

func TestPlanTick_InactiveSchedulesShutdownDelayOverride(t *testing.T) {
	sc := schedule.NewScheduleConfiguration(
		[]schedule.Entry{mustEntry(t, "s1", "00:00", "02:00")}, false, nil)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	plan := planTick(sc, now, 30*time.Second, hat.ReasonAlarmStartup)

	require.False(t, plan.Active)
	require.False(t, plan.Alarm2.Disabled())
	expected := now.Add(30 * time.Second)
	assert.Equal(t, byte(expected.Second()), plan.Alarm2.Second)
	assert.Equal(t, byte(expected.Minute()), plan.Alarm2.Minute)
}

func TestPlanTick_ForceOnNeverSchedulesShutdown(t *testing.T) {
	sc := schedule.NewScheduleConfiguration(nil, true, nil)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	plan := planTick(sc, now, 30*time.Second, hat.ReasonAlarmStartup)

	assert.True(t, plan.Active)
	assert.True(t, plan.Alarm2.Disabled())
}

func TestPlanTick_AlarmFiredButStillActiveRequestsShutdown(t *testing.T) {
	sc := schedule.NewScheduleConfiguration(nil, true, nil)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	plan := planTick(sc, now, 30*time.Second, hat.ReasonLowVoltage)

	assert.True(t, plan.Active)
	assert.True(t, plan.ShutdownNow)
}
