package alerting

import (
	"fmt"
	"time"

	"envitrack/internal/config"
	"envitrack/internal/sensor"
)

// Kind identifies which bound a reading violated.
type Kind string

const (
	TemperatureHigh Kind = "TEMPERATURE_HIGH"
	TemperatureLow  Kind = "TEMPERATURE_LOW"
	HumidityHigh    Kind = "HUMIDITY_HIGH"
	HumidityLow     Kind = "HUMIDITY_LOW"
	AirQualityPoor  Kind = "AIR_QUALITY_POOR"
)

// Severity grades an alert.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

var severities = map[Kind]Severity{
	TemperatureHigh: SeverityWarning,
	TemperatureLow:  SeverityWarning,
	HumidityHigh:    SeverityWarning,
	HumidityLow:     SeverityWarning,
	AirQualityPoor:  SeverityCritical,
}

// Severity returns the fixed severity of the kind.
func (k Kind) Severity() Severity {
	if s, ok := severities[k]; ok {
		return s
	}
	return SeverityWarning
}

// Alert records a single threshold violation.
type Alert struct {
	Kind      Kind
	Severity  Severity
	Message   string
	Value     float64
	Timestamp time.Time
}

func newAlert(kind Kind, value float64, ts time.Time, format string, args ...any) Alert {
	return Alert{
		Kind:      kind,
		Severity:  kind.Severity(),
		Message:   fmt.Sprintf(format, args...),
		Value:     value,
		Timestamp: ts,
	}
}

// Evaluate compares one reading against the threshold set. Each metric is
// checked on its own and yields at most one alert; for bounded metrics the
// upper bound is checked first, so HIGH and LOW never both fire.
func Evaluate(r sensor.Reading, t config.Thresholds) []Alert {
	var alerts []Alert

	switch {
	case r.Temperature > t.TempMax:
		alerts = append(alerts, newAlert(TemperatureHigh, r.Temperature, r.Timestamp,
			"Temperature too high: %.1f°C (max: %s°C)", r.Temperature, sensor.FormatBound(t.TempMax)))
	case r.Temperature < t.TempMin:
		alerts = append(alerts, newAlert(TemperatureLow, r.Temperature, r.Timestamp,
			"Temperature too low: %.1f°C (min: %s°C)", r.Temperature, sensor.FormatBound(t.TempMin)))
	}

	switch {
	case r.Humidity > t.HumidityMax:
		alerts = append(alerts, newAlert(HumidityHigh, r.Humidity, r.Timestamp,
			"Humidity too high: %.1f%% (max: %s%%)", r.Humidity, sensor.FormatBound(t.HumidityMax)))
	case r.Humidity < t.HumidityMin:
		alerts = append(alerts, newAlert(HumidityLow, r.Humidity, r.Timestamp,
			"Humidity too low: %.1f%% (min: %s%%)", r.Humidity, sensor.FormatBound(t.HumidityMin)))
	}

	if r.AirQuality > t.AirQualityMax {
		alerts = append(alerts, newAlert(AirQualityPoor, r.AirQuality, r.Timestamp,
			"Poor air quality: %.0f ppm (max: %s ppm)", r.AirQuality, sensor.FormatBound(t.AirQualityMax)))
	}

	return alerts
}
