// Package app wires configuration, ingest, classification and export into a
// single batch run.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/internal/export"
	"github.com/openpv/clearsky/internal/ingest"
	"github.com/openpv/clearsky/internal/log"
	"github.com/openpv/clearsky/pkg/config"
)

// App represents the main application
type App struct {
	config *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(configData *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		config: configData,
		logger: logger,
	}
}

// Run executes one classification pass and blocks until it finishes. A
// SIGINT or SIGTERM cancels the run.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Infof("received %v, cancelling run...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	options, err := a.buildOptions()
	if err != nil {
		return fmt.Errorf("failed to build classifier options: %w", err)
	}

	started := time.Now().UTC()

	samples, err := ingest.Load(&a.config.Dataset, a.logger)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(samples) == 0 {
		log.Warn("dataset selected no samples, nothing to classify")
		return nil
	}

	observer := newRunObserver(a.logger)
	classifier := clearsky.New(options, a.logger)
	classifier.SetObserver(observer)

	records, err := classifier.Run(ctx, samples)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	accepted, rejected := observer.Summary()
	log.Infow("Day verdicts", "accepted", accepted, "rejected", rejected)

	run := export.RunInfo{
		ID:                 uuid.New().String(),
		StartedAt:          started,
		FinishedAt:         time.Now().UTC(),
		ComparisonInterval: a.effectiveInterval(),
		Percentile:         effectiveScalar(options.Percentile, clearsky.DefaultPercentile),
		CorrThreshold:      effectiveScalar(options.CorrThreshold, clearsky.DefaultCorrThreshold),
		StreamCount:        observer.Streams(),
	}

	if err := export.Write(&a.config.Output, run, records, a.logger); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Infof("run %s finished: %d streams, %d clear sky days, %s",
		run.ID, run.StreamCount, len(records),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	return nil
}

// buildOptions converts the pipeline configuration into classifier options.
// Nil tunables stay nil so the classifier derives them per stream.
func (a *App) buildOptions() (clearsky.Options, error) {
	pipeline := a.config.Pipeline

	options := clearsky.Options{
		Percentile:       pipeline.Percentile,
		CorrThreshold:    pipeline.CorrThreshold,
		FirstLastLimit:   pipeline.FirstLastLimit,
		MinPoints:        pipeline.MinPoints,
		PreSmoothWindow:  pipeline.PreSmoothWindow,
		PostSmoothWindow: pipeline.PostSmoothWindow,
		GapThreshold:     pipeline.GapThreshold,
		MaxDeviation:     pipeline.MaxDeviation,
		MaxExceedCount:   pipeline.MaxExceedCount,
		Workers:          pipeline.Workers,
	}

	if pipeline.ComparisonInterval != "" {
		interval, err := config.ParseInterval(pipeline.ComparisonInterval)
		if err != nil {
			return clearsky.Options{}, err
		}
		options.ComparisonInterval = interval
	}

	return options, nil
}

func (a *App) effectiveInterval() string {
	if a.config.Pipeline.ComparisonInterval != "" {
		return a.config.Pipeline.ComparisonInterval
	}
	return "30d"
}

func effectiveScalar(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}
