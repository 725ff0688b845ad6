// Package sun is the pure astronomical function spec.md §1 assumes is
// available externally: sunrise/sunset for a given date and (lat, lon).
//
// Grounded on _examples/other_examples/3868669b_Xevion-go-ha__internal-scheduling-daily.go.go,
// which resolves an identical "sun event + offset" scheduling need with the
// same library.
package sun

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Location is the minimal geographic input a sun calculation needs.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Times returns the sunrise and sunset instants, in UTC, for the given
// calendar date (only the date, not the exact time-of-day, matters). An
// error is returned for the polar-day/polar-night case where the sun
// neither rises nor sets on that date.
func Times(loc Location, date time.Time) (map[string]time.Time, error) {
	rise, set := sunrise.SunriseSunset(
		loc.Latitude, loc.Longitude,
		date.Year(), date.Month(), date.Day(),
	)
	if rise.IsZero() && set.IsZero() {
		return nil, fmt.Errorf("sun: no sunrise/sunset at lat=%.5f lon=%.5f on %s (polar day or night)",
			loc.Latitude, loc.Longitude, date.Format("2006-01-02"))
	}

	return map[string]time.Time{
		"sunrise": rise,
		"sunset":  set,
	}, nil
}
