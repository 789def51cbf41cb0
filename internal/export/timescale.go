package export

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/internal/database"
)

// writeTimescaleDB persists the run and its accepted days through the
// database client.
func writeTimescaleDB(connectionString string, run RunInfo, records []clearsky.Record, logger *zap.SugaredLogger) error {
	client := database.NewClient(connectionString, logger)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to timescaledb: %w", err)
	}

	dbRun := &database.ClearskyRun{
		ID:                 run.ID,
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
		ComparisonInterval: run.ComparisonInterval,
		Percentile:         run.Percentile,
		CorrThreshold:      run.CorrThreshold,
		StreamCount:        run.StreamCount,
		DayCount:           len(records),
	}

	days := make([]database.ClearskyDay, 0, len(records))
	samples := make([][]database.ClearskySample, 0, len(records))
	for _, record := range records {
		days = append(days, database.ClearskyDay{
			Stream:      record.Stream,
			Date:        record.Date,
			Correlation: record.Correlation,
			SampleCount: len(record.Samples),
		})

		batch := make([]database.ClearskySample, 0, len(record.Samples))
		for _, sample := range record.Samples {
			batch = append(batch, database.ClearskySample{
				Time:  sample.Time,
				Power: sample.Power,
			})
		}
		samples = append(samples, batch)
	}

	if err := client.SaveResults(dbRun, days, samples); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	logger.Infow("Wrote clear sky days", "format", "timescaledb",
		"run_id", run.ID, "days", len(records))

	return nil
}
