// Package export writes accepted clear sky days to the configured output
// sink.
package export

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/pkg/config"
)

// RunInfo carries metadata about the classification run alongside its
// results.
type RunInfo struct {
	ID                 string
	StartedAt          time.Time
	FinishedAt         time.Time
	ComparisonInterval string
	Percentile         float64
	CorrThreshold      float64
	StreamCount        int
}

// Write sends the accepted days to the sink the output configuration names.
// An empty format writes nothing.
func Write(output *config.OutputData, run RunInfo, records []clearsky.Record, logger *zap.SugaredLogger) error {
	switch output.Format {
	case "":
		return nil
	case "csv":
		return writeCSV(output.Path, records, logger)
	case "msgpack":
		return writeMsgpack(output.Path, run, records, logger)
	case "timescaledb":
		return writeTimescaleDB(output.ConnectionString, run, records, logger)
	default:
		return fmt.Errorf("unsupported output format %q", output.Format)
	}
}
