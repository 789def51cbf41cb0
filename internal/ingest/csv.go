package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/pkg/config"
)

// readCSV loads samples from a CSV file with a header row. Rows with
// unparseable values are skipped with a warning; a malformed file structure
// aborts the load. Files carrying no stream column are read as one
// synthetic stream.
func readCSV(dataset *config.DatasetData, logger *zap.SugaredLogger) ([]clearsky.Sample, error) {
	file, err := os.Open(dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	loc, err := locationFor(dataset)
	if err != nil {
		return nil, err
	}
	from, to, err := timeBounds(dataset)
	if err != nil {
		return nil, err
	}
	layout := layoutFor(dataset)
	columns := columnsFor(dataset)
	wanted := streamSet(dataset.Streams)

	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		index[strings.TrimSpace(header)] = i
	}

	timeIdx, ok := index[columns.Time]
	if !ok {
		return nil, fmt.Errorf("csv is missing time column %q", columns.Time)
	}
	powerIdx, ok := index[columns.Power]
	if !ok {
		return nil, fmt.Errorf("csv is missing power column %q", columns.Power)
	}

	// A file without a stream column holds a single stream. Only error when
	// the column was configured explicitly and still is not there.
	streamIdx, haveStream := index[columns.Stream]
	if !haveStream && dataset.Columns.Stream != "" {
		return nil, fmt.Errorf("csv is missing stream column %q", columns.Stream)
	}

	var samples []clearsky.Sample
	var skipped int
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		line++

		t, err := time.ParseInLocation(layout, strings.TrimSpace(row[timeIdx]), loc)
		if err != nil {
			logger.Warnw("Skipping row with unparseable timestamp",
				"line", line, "value", row[timeIdx])
			skipped++
			continue
		}

		power, err := strconv.ParseFloat(strings.TrimSpace(row[powerIdx]), 64)
		if err != nil {
			logger.Warnw("Skipping row with unparseable power value",
				"line", line, "value", row[powerIdx])
			skipped++
			continue
		}

		stream := syntheticStream
		if haveStream {
			stream = strings.TrimSpace(row[streamIdx])
		}
		if wanted != nil && !wanted[stream] {
			continue
		}
		if !inBounds(t, from, to) {
			continue
		}

		samples = append(samples, clearsky.Sample{Time: t, Power: power, Stream: stream})
	}

	logger.Infow("Loaded dataset",
		"source", "csv", "path", dataset.Path,
		"samples", len(samples), "skipped_rows", skipped)

	return samples, nil
}
