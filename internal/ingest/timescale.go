package ingest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/internal/database"
	"github.com/openpv/clearsky/pkg/config"
)

// readTimescaleDB loads samples from the configured measurement table.
func readTimescaleDB(dataset *config.DatasetData, logger *zap.SugaredLogger) ([]clearsky.Sample, error) {
	client := database.NewClient(dataset.ConnectionString, logger)
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to timescaledb: %w", err)
	}

	loc, err := locationFor(dataset)
	if err != nil {
		return nil, err
	}
	from, to, err := timeBounds(dataset)
	if err != nil {
		return nil, err
	}
	columns := columnsFor(dataset)

	measurements, err := client.FetchMeasurements(database.MeasurementQuery{
		Table:        tableFor(dataset),
		TimeColumn:   columns.Time,
		StreamColumn: columns.Stream,
		PowerColumn:  columns.Power,
		Streams:      dataset.Streams,
		From:         from,
		To:           to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	samples := make([]clearsky.Sample, 0, len(measurements))
	for _, m := range measurements {
		samples = append(samples, clearsky.Sample{
			Time:   m.Time.In(loc),
			Power:  m.Power,
			Stream: m.Stream,
		})
	}

	logger.Infow("Loaded dataset",
		"source", "timescaledb", "table", tableFor(dataset),
		"samples", len(samples))

	return samples, nil
}
