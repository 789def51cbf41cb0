package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/pkg/config"
)

// clearDayCSV renders a parabolic power curve from 06:00 to 18:00 at a five
// minute cadence, zero at both edges.
func clearDayCSV(stream string, date time.Time, peak float64) string {
	var b strings.Builder
	for i := 0; i <= 144; i++ {
		dayTime := 360.0 + 5.0*float64(i)
		offset := (dayTime - 720.0) / 360.0
		power := peak * (1.0 - offset*offset)
		t := date.Add(time.Duration(dayTime * float64(time.Minute)))
		fmt.Fprintf(&b, "%s,%s,%g\n", t.Format(time.RFC3339), stream, power)
	}
	return b.String()
}

func writeConfig(t *testing.T, datasetPath, outputPath string) *config.ConfigData {
	t.Helper()
	return &config.ConfigData{
		Dataset: config.DatasetData{
			Source: "csv",
			Path:   datasetPath,
			Columns: config.ColumnMapData{
				Time:   "time",
				Power:  "power",
				Stream: "stream_id",
			},
		},
		Output: config.OutputData{
			Format: "csv",
			Path:   outputPath,
		},
	}
}

func TestAppRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "measurements.csv")
	outputPath := filepath.Join(dir, "days.csv")

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	content := "time,stream_id,power\n" + clearDayCSV("pv-a", date, 6.0)
	if err := os.WriteFile(datasetPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	application := New(writeConfig(t, datasetPath, outputPath), zap.NewNop().Sugar())
	if err := application.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("run produced no output file: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	// Header plus every sample of the one accepted day.
	if len(rows) != 146 {
		t.Fatalf("output has %d rows, expected 146", len(rows))
	}
	if rows[1][0] != "pv-a" || rows[1][1] != "2024-06-03" {
		t.Errorf("first data row = %v", rows[1])
	}
}

func TestAppRunEmptySelection(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "measurements.csv")
	outputPath := filepath.Join(dir, "days.csv")

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	content := "time,stream_id,power\n" + clearDayCSV("pv-a", date, 6.0)
	if err := os.WriteFile(datasetPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	cfg := writeConfig(t, datasetPath, outputPath)
	cfg.Dataset.Streams = []string{"pv-z"}

	application := New(cfg, zap.NewNop().Sugar())
	if err := application.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("an empty selection should not produce an output file")
	}
}

func TestAppRunRejectsBadInterval(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "measurements.csv")

	cfg := writeConfig(t, datasetPath, filepath.Join(dir, "days.csv"))
	cfg.Pipeline.ComparisonInterval = "sometime"

	application := New(cfg, zap.NewNop().Sugar())
	if err := application.Run(context.Background()); err == nil {
		t.Error("Run accepted an unparseable comparison interval")
	}
}

func TestBuildOptionsPassesTunables(t *testing.T) {
	minPoints := 42
	gap := 12.5
	cfg := &config.ConfigData{
		Pipeline: config.PipelineData{
			ComparisonInterval: "15d",
			Percentile:         0.85,
			MinPoints:          &minPoints,
			GapThreshold:       &gap,
			Workers:            3,
		},
	}

	application := New(cfg, zap.NewNop().Sugar())
	options, err := application.buildOptions()
	if err != nil {
		t.Fatalf("buildOptions returned error: %v", err)
	}

	if options.ComparisonInterval != 360*time.Hour {
		t.Errorf("ComparisonInterval = %v, expected 360h", options.ComparisonInterval)
	}
	if options.Percentile != 0.85 {
		t.Errorf("Percentile = %v", options.Percentile)
	}
	if options.MinPoints == nil || *options.MinPoints != 42 {
		t.Errorf("MinPoints = %v, expected 42", options.MinPoints)
	}
	if options.GapThreshold == nil || *options.GapThreshold != 12.5 {
		t.Errorf("GapThreshold = %v, expected 12.5", options.GapThreshold)
	}
	if options.PreSmoothWindow != nil {
		t.Error("PreSmoothWindow should stay nil when unset")
	}
	if options.Workers != 3 {
		t.Errorf("Workers = %d", options.Workers)
	}
}
