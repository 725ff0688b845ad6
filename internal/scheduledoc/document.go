// Package scheduledoc implements component C10: loading the YAML
// configuration document of spec.md §6 into a schedule.ScheduleConfiguration,
// plus the geolocation fallback file format.
package scheduledoc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wittypi/wittygo/internal/schedule"
	"github.com/wittypi/wittygo/internal/timeexpr"
)

// Telemetry holds the optional telemetry sinks a schedule document may
// configure (C12); nil fields mean "disabled".
type Telemetry struct {
	MQTT     *MQTTConfig
	InfluxDB *InfluxDBConfig
}

type MQTTConfig struct {
	Broker      string
	TopicPrefix string
}

type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Document is the parsed, validated configuration: a ready-to-use
// ScheduleConfiguration plus the ancillary settings the control loop and
// the optional telemetry sinks need.
type Document struct {
	Config      *schedule.ScheduleConfiguration
	ButtonDelay *time.Duration
	Telemetry   Telemetry
	// HistoryPath is where the event history store should be opened; empty
	// disables history entirely.
	HistoryPath string
}

// DefaultGeolocationPath is the geoclue-2.0 fallback file spec.md §6 reads
// when the schedule document itself carries no lat/lon.
const DefaultGeolocationPath = "/etc/geolocation"

// Load reads and parses the schedule document at path. Unlike a typed
// struct, decoding into map[string]interface{} first lets the loader warn
// on unrecognized top-level and per-entry keys instead of silently
// dropping them, per spec.md §6's rejection rules.
//
// geoPath is consulted for lat/lon only when the document itself has
// neither; pass "" to skip the fallback entirely (e.g. in tests that don't
// care about geolocation).
func Load(path string, geoPath string, tz *time.Location, log *zap.SugaredLogger) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scheduledoc: reading %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("scheduledoc: parsing %s: %w", path, err)
	}

	return build(doc, geoPath, tz, log)
}

var knownTopLevelKeys = map[string]bool{
	"lat": true, "lon": true, "force_on": true, "button_delay": true,
	"schedule": true, "telemetry": true, "history": true,
}

var knownEntryKeys = map[string]bool{"name": true, "start": true, "stop": true}

func build(doc map[string]interface{}, geoPath string, tz *time.Location, log *zap.SugaredLogger) (*Document, error) {
	warn := func(format string, args ...interface{}) {
		if log != nil {
			log.Warnf(format, args...)
		}
	}

	for key := range doc {
		if !knownTopLevelKeys[key] {
			warn("scheduledoc: ignoring unknown top-level key %q", key)
		}
	}

	// Location resolution order per spec.md §6: the document's own
	// lat/lon, else the geolocation fallback file, else unset (relative
	// schedules disabled).
	var loc *timeexpr.Location
	lat, hasLat := floatField(doc, "lat")
	lon, hasLon := floatField(doc, "lon")
	if !(hasLat && hasLon) && geoPath != "" {
		if glat, glon, err := LoadGeolocation(geoPath); err == nil {
			lat, lon = glat, glon
			hasLat, hasLon = true, true
		} else {
			warn("scheduledoc: no lat/lon in configuration and reading geolocation file %s failed: %v", geoPath, err)
		}
	}
	if hasLat && hasLon {
		loc = &timeexpr.Location{Name: "schedule", Latitude: lat, Longitude: lon}
	} else {
		warn("scheduledoc: no lat/lon in configuration or geolocation file, relative schedules disabled")
	}

	forceOn := false
	if v, ok := doc["force_on"]; ok {
		if b, ok := v.(bool); ok {
			forceOn = b
		}
	}

	var buttonDelay *time.Duration
	if v, ok := doc["button_delay"].(string); ok {
		if d, err := timeexpr.ParseDuration(v); err == nil {
			buttonDelay = &d
		} else {
			warn("scheduledoc: ignoring unparsable button_delay %q: %v", v, err)
		}
	}

	entries, rawEntries := parseEntries(doc["schedule"], loc, tz, warn)
	if len(entries) == 0 {
		if rawEntries {
			warn("scheduledoc: no schedule entries survived parsing, forcing force_on")
		} else {
			warn("scheduledoc: no schedule in configuration, forcing force_on")
		}
		forceOn = true
	}

	cfg := schedule.NewScheduleConfiguration(entries, forceOn, log)

	return &Document{
		Config:      cfg,
		ButtonDelay: buttonDelay,
		Telemetry:   parseTelemetry(doc["telemetry"]),
		HistoryPath: parseHistoryPath(doc["history"]),
	}, nil
}

func parseHistoryPath(raw interface{}) string {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return ""
	}
	path, _ := m["path"].(string)
	return path
}

// parseEntries returns the parsed entries and whether the "schedule" key
// held a list (used to phrase the force_on warning accurately).
func parseEntries(raw interface{}, loc *timeexpr.Location, tz *time.Location, warn func(string, ...interface{})) ([]schedule.Entry, bool) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}

	var entries []schedule.Entry
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			warn("scheduledoc: ignoring malformed schedule entry %#v", item)
			continue
		}
		for key := range m {
			if !knownEntryKeys[key] {
				warn("scheduledoc: ignoring unknown schedule entry key %q", key)
			}
		}

		name, _ := m["name"].(string)
		startText, _ := m["start"].(string)
		stopText, _ := m["stop"].(string)

		start, err := timeexpr.Parse(startText, loc)
		if err != nil {
			warn("scheduledoc: dropping entry %q: %v", name, err)
			continue
		}
		stop, err := timeexpr.Parse(stopText, loc)
		if err != nil {
			warn("scheduledoc: dropping entry %q: %v", name, err)
			continue
		}

		entries = append(entries, schedule.NewScheduleEntry(name, start, stop, tz))
	}
	return entries, true
}

func parseTelemetry(raw interface{}) Telemetry {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Telemetry{}
	}

	var t Telemetry
	if mq, ok := m["mqtt"].(map[string]interface{}); ok {
		broker, _ := mq["broker"].(string)
		prefix, _ := mq["topic_prefix"].(string)
		if broker != "" {
			t.MQTT = &MQTTConfig{Broker: broker, TopicPrefix: prefix}
		}
	}
	if inf, ok := m["influxdb"].(map[string]interface{}); ok {
		url, _ := inf["url"].(string)
		if url != "" {
			token, _ := inf["token"].(string)
			org, _ := inf["org"].(string)
			bucket, _ := inf["bucket"].(string)
			t.InfluxDB = &InfluxDBConfig{URL: url, Token: token, Org: org, Bucket: bucket}
		}
	}
	return t
}

func floatField(doc map[string]interface{}, key string) (float64, bool) {
	v, ok := doc[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// LoadGeolocation parses the geoclue-2.0 subset of spec.md §6: plain text,
// "#" comments, first two non-empty lines are latitude then longitude.
func LoadGeolocation(path string) (lat, lon float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(values) < 2 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("scheduledoc: parsing geolocation line %q: %w", line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("scheduledoc: geolocation file %s has fewer than two coordinate lines", path)
	}
	return values[0], values[1], nil
}
