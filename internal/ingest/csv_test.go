package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/pkg/config"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset file: %v", err)
	}
	return path
}

func TestLoadCSVWithMappedColumns(t *testing.T) {
	content := `ts,site,kw
2024-06-01T08:00:00Z,pv-a,1.5
2024-06-01T08:05:00Z,pv-a,1.7
bad-time,pv-a,1.0
2024-06-01T08:10:00Z,pv-b,2.0
2024-06-01T08:15:00Z,pv-a,not-a-number
2023-12-31T23:00:00Z,pv-a,0.5
2024-07-01T00:00:00Z,pv-a,0.6
`
	dataset := &config.DatasetData{
		Source:  "csv",
		Path:    writeDataset(t, content),
		Columns: config.ColumnMapData{Time: "ts", Power: "kw", Stream: "site"},
		Streams: []string{"pv-a"},
		From:    "2024-01-01T00:00:00Z",
		To:      "2024-07-01T00:00:00Z",
	}

	samples, err := Load(dataset, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, expected 2: %+v", len(samples), samples)
	}
	for _, s := range samples {
		if s.Stream != "pv-a" {
			t.Errorf("sample from stream %q leaked through the filter", s.Stream)
		}
	}
	if samples[0].Power != 1.5 || samples[1].Power != 1.7 {
		t.Errorf("sample powers = %v, %v", samples[0].Power, samples[1].Power)
	}

	expected := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	if !samples[0].Time.Equal(expected) {
		t.Errorf("first sample time = %v, expected %v", samples[0].Time, expected)
	}
}

func TestLoadCSVDefaultColumns(t *testing.T) {
	content := `time,stream_id,power
2024-06-01T08:00:00Z,pv-a,1.5
2024-06-01T08:05:00Z,pv-b,2.5
`
	dataset := &config.DatasetData{
		Source: "csv",
		Path:   writeDataset(t, content),
	}

	samples, err := Load(dataset, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, expected 2", len(samples))
	}
	if samples[1].Stream != "pv-b" || samples[1].Power != 2.5 {
		t.Errorf("second sample = %+v", samples[1])
	}
}

func TestLoadCSVCustomLayoutAndTimezone(t *testing.T) {
	content := `time,stream_id,power
2024-06-01 08:00:00,pv-a,1.5
`
	dataset := &config.DatasetData{
		Source:     "csv",
		Path:       writeDataset(t, content),
		Timezone:   "Europe/Berlin",
		TimeLayout: "2006-01-02 15:04:05",
	}

	samples, err := Load(dataset, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("loaded %d samples, expected 1", len(samples))
	}

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("failed to load test timezone: %v", err)
	}
	expected := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)
	if !samples[0].Time.Equal(expected) {
		t.Errorf("sample time = %v, expected %v", samples[0].Time, expected)
	}
}

func TestLoadCSVSingleStreamFallback(t *testing.T) {
	content := `time,power
2024-06-01T08:00:00Z,1.5
2024-06-01T08:05:00Z,1.7
`
	dataset := &config.DatasetData{
		Source: "csv",
		Path:   writeDataset(t, content),
	}

	samples, err := Load(dataset, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, expected 2", len(samples))
	}
	for _, s := range samples {
		if s.Stream != "pv" {
			t.Errorf("expected the synthetic stream id, got %q", s.Stream)
		}
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	content := `time,power
2024-06-01T08:00:00Z,1.5
`
	dataset := &config.DatasetData{
		Source:  "csv",
		Path:    writeDataset(t, content),
		Columns: config.ColumnMapData{Stream: "site"},
	}

	if _, err := Load(dataset, zap.NewNop().Sugar()); err == nil {
		t.Error("Load accepted a csv without the configured stream column")
	}
}

func TestLoadUnsupportedSource(t *testing.T) {
	dataset := &config.DatasetData{Source: "carrier-pigeon"}
	if _, err := Load(dataset, zap.NewNop().Sugar()); err == nil {
		t.Error("Load accepted an unsupported source")
	}
}
