package export

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
)

// Document layout of a msgpack export. Field names follow the json tags so
// downstream consumers see the same keys regardless of format.
type runDocument struct {
	ID                 string    `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	ComparisonInterval string    `json:"comparison_interval"`
	Percentile         float64   `json:"percentile"`
	CorrThreshold      float64   `json:"corr_threshold"`
	StreamCount        int       `json:"stream_count"`
}

type sampleDocument struct {
	Time  time.Time `json:"time"`
	Power float64   `json:"power"`
}

type dayDocument struct {
	Stream      string           `json:"stream"`
	Date        string           `json:"date"`
	Correlation float64          `json:"correlation"`
	Samples     []sampleDocument `json:"samples"`
}

type runExport struct {
	Run  runDocument   `json:"run"`
	Days []dayDocument `json:"days"`
}

// writeMsgpack encodes the run and its accepted days as a single msgpack
// document.
func writeMsgpack(path string, run RunInfo, records []clearsky.Record, logger *zap.SugaredLogger) error {
	doc := runExport{
		Run: runDocument{
			ID:                 run.ID,
			StartedAt:          run.StartedAt,
			FinishedAt:         run.FinishedAt,
			ComparisonInterval: run.ComparisonInterval,
			Percentile:         run.Percentile,
			CorrThreshold:      run.CorrThreshold,
			StreamCount:        run.StreamCount,
		},
		Days: make([]dayDocument, 0, len(records)),
	}

	for _, record := range records {
		day := dayDocument{
			Stream:      record.Stream,
			Date:        record.Date.Format("2006-01-02"),
			Correlation: record.Correlation,
			Samples:     make([]sampleDocument, 0, len(record.Samples)),
		}
		for _, sample := range record.Samples {
			day.Samples = append(day.Samples, sampleDocument{
				Time:  sample.Time,
				Power: sample.Power,
			})
		}
		doc.Days = append(doc.Days, day)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := msgpack.NewEncoder(file)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode msgpack output: %w", err)
	}

	logger.Infow("Wrote clear sky days", "format", "msgpack", "path", path,
		"days", len(records))

	return nil
}
