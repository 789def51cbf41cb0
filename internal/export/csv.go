package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
)

// writeCSV flattens the accepted days into one row per sample.
func writeCSV(path string, records []clearsky.Record, logger *zap.SugaredLogger) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	header := []string{"stream", "day", "correlation", "time", "power"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	// Write data
	rows := 0
	for _, record := range records {
		day := record.Date.Format("2006-01-02")
		correlation := strconv.FormatFloat(record.Correlation, 'f', -1, 64)

		for _, sample := range record.Samples {
			row := []string{
				record.Stream,
				day,
				correlation,
				sample.Time.Format(time.RFC3339),
				strconv.FormatFloat(sample.Power, 'f', -1, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}

	logger.Infow("Wrote clear sky days", "format", "csv", "path", path,
		"days", len(records), "rows", rows)

	return nil
}
