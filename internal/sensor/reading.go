package sensor

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Metric names a measured quantity.
type Metric string

const (
	Temperature Metric = "temperature"
	Humidity    Metric = "humidity"
	AirQuality  Metric = "air_quality"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{Temperature, Humidity, AirQuality}

// Label returns the human-readable metric name.
func (m Metric) Label() string {
	switch m {
	case Temperature:
		return "Temperature"
	case Humidity:
		return "Humidity"
	case AirQuality:
		return "Air Quality"
	default:
		return string(m)
	}
}

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	case AirQuality:
		return "ppm"
	default:
		return ""
	}
}

// Reading is one timestamped set of sensor values as fetched from the store.
// A value the record did not carry is NaN, so it never compares as out of
// bounds.
type Reading struct {
	Timestamp   time.Time
	Temperature float64
	Humidity    float64
	AirQuality  float64
	SourceKey   string
}

// Value returns the reading's value for the given metric.
func (r Reading) Value(m Metric) float64 {
	switch m {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case AirQuality:
		return r.AirQuality
	default:
		return 0
	}
}

// Has reports whether the reading carries a value for m.
func (r Reading) Has(m Metric) bool {
	return !math.IsNaN(r.Value(m))
}

// FormatValue renders v with the given number of decimals, or "n/a" when
// the value is missing.
func FormatValue(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatBound renders a threshold with at least one decimal place, so 35
// prints as 35.0 and 30.5 as 30.5.
func FormatBound(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// SortByTime orders readings ascending by timestamp, keeping the relative
// order of equal timestamps.
func SortByTime(readings []Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}

// Latest returns the most recent reading of a time-ordered slice.
func Latest(readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}
	return readings[len(readings)-1], true
}

// Since returns the readings at or after cutoff.
func Since(readings []Reading, cutoff time.Time) []Reading {
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Values extracts one metric column.
func Values(readings []Reading, m Metric) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = r.Value(m)
	}
	return out
}

// Times extracts the timestamp column.
func Times(readings []Reading) []time.Time {
	out := make([]time.Time, len(readings))
	for i, r := range readings {
		out[i] = r.Timestamp
	}
	return out
}
