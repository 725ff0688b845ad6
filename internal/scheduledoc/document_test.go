package scheduledoc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BasicSchedule(t *testing.T) {
	path := writeDoc(t, `
lat: 50.85318
lon: 8.78735
schedule:
  - name: overnight
    start: "22:00"
    stop: "05:00"
`)

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)
	require.NotNil(t, doc.Config)

	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	assert.True(t, doc.Config.Active(now))
}

func TestLoad_MissingScheduleForcesOn(t *testing.T) {
	path := writeDoc(t, "lat: 1.0\nlon: 2.0\n")

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)
	assert.True(t, doc.Config.Active(time.Now()))
}

func TestLoad_MalformedEntryDropsOnlyThatEntry(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: good
    start: "00:00"
    stop: "02:00"
  - name: bad
    start: "sunrise-01:00"
    stop: "sunset+01:00"
`)

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	assert.True(t, doc.Config.Active(now))
}

func TestLoad_ButtonDelay(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "00:00"
    stop: "01:00"
button_delay: "00:05"
`)

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)
	require.NotNil(t, doc.ButtonDelay)
	assert.Equal(t, 5*time.Minute, *doc.ButtonDelay)
}

func TestLoad_Telemetry(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "00:00"
    stop: "01:00"
telemetry:
  mqtt:
    broker: "tcp://localhost:1883"
    topic_prefix: "wittygo"
  influxdb:
    url: "http://localhost:8086"
    token: "secret"
    org: "home"
    bucket: "power"
`)

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)
	require.NotNil(t, doc.Telemetry.MQTT)
	assert.Equal(t, "wittygo", doc.Telemetry.MQTT.TopicPrefix)
	require.NotNil(t, doc.Telemetry.InfluxDB)
	assert.Equal(t, "power", doc.Telemetry.InfluxDB.Bucket)
}

func TestLoad_HistoryPath(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "00:00"
    stop: "01:00"
history:
  path: "/var/lib/wittygo/events.db"
`)

	doc, err := Load(path, "", time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/wittygo/events.db", doc.HistoryPath)
}

func TestLoad_FallsBackToGeolocationFile(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "sunrise-01:00"
    stop: "sunset+01:00"
`)
	dir := filepath.Dir(path)
	geoPath := filepath.Join(dir, "geolocation")
	require.NoError(t, os.WriteFile(geoPath, []byte("50.85318\n8.78735\n"), 0o644))

	doc, err := Load(path, geoPath, time.UTC, nil)
	require.NoError(t, err)
	require.Len(t, doc.Config.Entries(), 1)
}

func TestLoad_MissingGeolocationFileLeavesLocationUnset(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "sunrise-01:00"
    stop: "sunset+01:00"
`)

	doc, err := Load(path, filepath.Join(t.TempDir(), "does-not-exist"), time.UTC, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Config.Entries())
}

func TestLoadGeolocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geolocation")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n50.85318\n8.78735\n"), 0o644))

	lat, lon, err := LoadGeolocation(path)
	require.NoError(t, err)
	assert.InDelta(t, 50.85318, lat, 0.0001)
	assert.InDelta(t, 8.78735, lon, 0.0001)
}
