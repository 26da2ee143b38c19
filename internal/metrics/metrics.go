package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store fetch metrics
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envitrack_fetch_total",
			Help: "Total number of datastore fetches",
		},
		[]string{"status"}, // status: success, failed
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "envitrack_fetch_duration_seconds",
			Help:    "Datastore fetch latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Monitor metrics
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envitrack_polls_total",
			Help: "Total number of monitor polling cycles",
		},
		[]string{"result"}, // result: reading, empty, error
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envitrack_alerts_total",
			Help: "Total number of threshold alerts raised",
		},
		[]string{"kind", "severity"},
	)

	LastReading = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "envitrack_last_reading",
			Help: "Most recent value observed per metric",
		},
		[]string{"metric"},
	)

	LastReadingTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "envitrack_last_reading_timestamp_seconds",
			Help: "Unix time of the most recent reading",
		},
	)
)

// Poll results.
const (
	PollReading = "reading"
	PollEmpty   = "empty"
	PollError   = "error"
)

// ObserveFetch records the outcome and latency of one datastore fetch.
func ObserveFetch(elapsed time.Duration, err error) {
	FetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		FetchTotal.WithLabelValues("failed").Inc()
		return
	}
	FetchTotal.WithLabelValues("success").Inc()
}
