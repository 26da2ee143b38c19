package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"envitrack/internal/alerting"
	"envitrack/internal/config"
	"envitrack/internal/fetcher"
	"envitrack/internal/metrics"
	"envitrack/internal/scheduler"
	"envitrack/internal/sensor"
)

// State is the lifecycle state of a monitor.
type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "STOPPED"
}

// Monitor polls the datastore for the latest reading, checks it against the
// threshold set and keeps the alerts raised during the run.
type Monitor struct {
	scheduler  *scheduler.Scheduler
	fetcher    fetcher.SensorFetcher
	notifier   alerting.Notifier
	thresholds config.Thresholds
	out        io.Writer
	logger     zerolog.Logger
	now        func() time.Time

	runID   string
	state   State
	history alerting.History
}

// New constructs a monitor. Console output goes to out.
func New(sched *scheduler.Scheduler, f fetcher.SensorFetcher, notifier alerting.Notifier, thresholds config.Thresholds, out io.Writer, logger zerolog.Logger) *Monitor {
	runID := uuid.NewString()
	return &Monitor{
		scheduler:  sched,
		fetcher:    f,
		notifier:   notifier,
		thresholds: thresholds,
		out:        out,
		logger:     logger.With().Str("component", "monitor").Str("run_id", runID).Logger(),
		now:        time.Now,
		runID:      runID,
	}
}

// State reports whether the polling loop is active.
func (m *Monitor) State() State {
	return m.state
}

// History exposes the alerts recorded so far.
func (m *Monitor) History() *alerting.History {
	return &m.history
}

// Run blocks in the polling loop until ctx is cancelled, then prints the
// alert summary. Cancellation is the normal way to stop and is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	if m.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}

	m.state = StateRunning
	m.printBanner()
	m.logger.Info().Dur("interval", m.scheduler.Interval()).Msg("monitor started")

	err := m.scheduler.Run(ctx, m.Tick)

	m.state = StateStopped
	m.PrintSummary()
	m.logger.Info().Int("alerts", m.history.Len()).Msg("monitor stopped")

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// Tick runs one fetch-evaluate-report cycle. Fetch failures are reported
// and absorbed; the cycle is simply skipped. A fetch cut short by shutdown
// is abandoned silently.
func (m *Monitor) Tick(ctx context.Context, _ time.Time) error {
	readings, err := m.fetcher.FetchRecent(ctx, 1)
	if err != nil {
		if ctx.Err() != nil {
			m.logger.Debug().Err(err).Msg("fetch abandoned on shutdown")
			return nil
		}
		metrics.PollsTotal.WithLabelValues(metrics.PollError).Inc()
		m.logger.Warn().Err(err).Msg("fetch failed; skipping cycle")
		fmt.Fprintf(m.out, "✗ Error fetching data: %v\n", err)
		fmt.Fprintf(m.out, "[%s] No data available\n", m.now().Format(time.DateTime))
		return nil
	}

	latest, ok := sensor.Latest(readings)
	if !ok {
		metrics.PollsTotal.WithLabelValues(metrics.PollEmpty).Inc()
		fmt.Fprintf(m.out, "[%s] No data available\n", m.now().Format(time.DateTime))
		return nil
	}

	metrics.PollsTotal.WithLabelValues(metrics.PollReading).Inc()
	recordLatest(latest)

	alerts := alerting.Evaluate(latest, m.thresholds)
	marker := "✓"
	if len(alerts) > 0 {
		marker = "⚠️"
	}
	fmt.Fprintf(m.out, "%s %s\n", statusLine(latest), marker)

	for _, alert := range alerts {
		m.raise(ctx, alert)
	}
	return nil
}

func (m *Monitor) raise(ctx context.Context, alert alerting.Alert) {
	m.history.Append(alert)
	metrics.AlertsTotal.WithLabelValues(string(alert.Kind), string(alert.Severity)).Inc()

	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, alert); err != nil {
		m.logger.Error().Err(err).Str("kind", string(alert.Kind)).Msg("failed to emit alert")
	}
}

func recordLatest(r sensor.Reading) {
	for _, metric := range sensor.Metrics {
		metrics.LastReading.WithLabelValues(string(metric)).Set(r.Value(metric))
	}
	metrics.LastReadingTimestamp.Set(float64(r.Timestamp.Unix()))
}

func statusLine(r sensor.Reading) string {
	return fmt.Sprintf("[%s] T: %s°C | H: %s%% | AQ: %s ppm",
		r.Timestamp.Format(time.DateTime),
		sensor.FormatValue(r.Temperature, 1),
		sensor.FormatValue(r.Humidity, 1),
		sensor.FormatValue(r.AirQuality, 0))
}

func (m *Monitor) printBanner() {
	t := m.thresholds
	fmt.Fprintln(m.out, "=== EnviTrack Alert Monitor ===")
	fmt.Fprintln(m.out, "Monitoring thresholds:")
	fmt.Fprintf(m.out, "  Temperature: %s°C - %s°C\n", sensor.FormatBound(t.TempMin), sensor.FormatBound(t.TempMax))
	fmt.Fprintf(m.out, "  Humidity: %s%% - %s%%\n", sensor.FormatBound(t.HumidityMin), sensor.FormatBound(t.HumidityMax))
	fmt.Fprintf(m.out, "  Air Quality: < %s ppm\n", sensor.FormatBound(t.AirQualityMax))
	fmt.Fprintf(m.out, "\nChecking every %g seconds...\n", m.scheduler.Interval().Seconds())
	fmt.Fprint(m.out, "Press Ctrl+C to stop\n\n")
}

// PrintSummary writes the total alert count and the per-kind breakdown.
func (m *Monitor) PrintSummary() {
	fmt.Fprint(m.out, "\n\n=== Monitoring stopped ===\n")
	fmt.Fprintf(m.out, "Total alerts triggered: %d\n", m.history.Len())

	counts := m.history.CountByKind()
	if len(counts) == 0 {
		return
	}
	fmt.Fprint(m.out, "\nAlert summary:\n")
	for _, c := range counts {
		fmt.Fprintf(m.out, "  %s: %d\n", c.Kind, c.Count)
	}
}
