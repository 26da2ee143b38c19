package app

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"envitrack/internal/alerting"
	"envitrack/internal/config"
	"envitrack/internal/fetcher"
	"envitrack/internal/metrics"
	"envitrack/internal/monitor"
	"envitrack/internal/scheduler"
	"envitrack/internal/visualize"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer

	fetcher fetcher.SensorFetcher
}

// NewApp constructs a new application handle writing reports to stdout.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	a := &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
	for _, w := range cfg.Warnings {
		a.Logger.Warn().Msg(w)
	}
	return a
}

func (a *App) sensorFetcher() fetcher.SensorFetcher {
	if a.fetcher != nil {
		return a.fetcher
	}
	return fetcher.NewStore(fetcher.StoreOptions{
		BaseURL:   a.Config.Store.URL,
		AuthToken: a.Config.Store.AuthToken,
		Timeout:   a.Config.Store.Timeout,
		UserAgent: a.Config.Store.UserAgent,
	}, a.Logger)
}

func (a *App) newVisualizer(outputDir string) *visualize.Visualizer {
	if outputDir == "" {
		outputDir = a.Config.Visualize.OutputDir
	}
	return visualize.New(visualize.Options{
		OutputDir:   outputDir,
		Width:       a.Config.Visualize.Width,
		PanelHeight: a.Config.Visualize.PanelHeight,
		Thresholds:  a.Config.Thresholds,
	}, a.Logger)
}

// Run executes the long-running alert monitor until interrupted.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if addr := a.Config.Metrics.ListenAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, a.Logger); err != nil {
				a.Logger.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	sched := scheduler.New(scheduler.Options{
		Interval: a.Config.Monitor.Interval,
	}, a.Logger)

	notifier := alerting.NewConsoleNotifier(a.Out, a.Logger)
	mon := monitor.New(sched, a.sensorFetcher(), notifier, a.Config.Thresholds, a.Out, a.Logger)

	err := mon.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("monitor terminated with error")
		return err
	}
	return nil
}

// FetchOptions configure the fetch command.
type FetchOptions struct {
	Limit   int
	CSVPath string
	Head    int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
	// Since drops readings older than this age; zero keeps all.
	Since time.Duration
}

// VisualizeOptions configure the visualize command.
type VisualizeOptions struct {
	Hours     int
	OutputDir string
	Open      bool
}

// SimulateOptions carry the reading evaluated by simulate-alert.
type SimulateOptions struct {
	Temperature string
	Humidity    string
	AirQuality  string
}
