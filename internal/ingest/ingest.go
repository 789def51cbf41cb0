// Package ingest reads PV power measurements from the configured dataset
// source and hands them to the classifier as samples.
package ingest

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/pkg/config"
)

// Default column names, matching the canonical pv_measurements layout the
// data simulator writes.
const (
	defaultTable        = "pv_measurements"
	defaultTimeColumn   = "time"
	defaultStreamColumn = "stream_id"
	defaultPowerColumn  = "power"
)

// syntheticStream labels all samples of a dataset that carries no stream
// column at all.
const syntheticStream = "pv"

// Load reads every sample the dataset configuration selects.
func Load(dataset *config.DatasetData, logger *zap.SugaredLogger) ([]clearsky.Sample, error) {
	switch dataset.Source {
	case "csv":
		return readCSV(dataset, logger)
	case "timescaledb":
		return readTimescaleDB(dataset, logger)
	default:
		return nil, fmt.Errorf("unsupported dataset source %q", dataset.Source)
	}
}

func columnsFor(dataset *config.DatasetData) config.ColumnMapData {
	columns := dataset.Columns
	if columns.Time == "" {
		columns.Time = defaultTimeColumn
	}
	if columns.Stream == "" {
		columns.Stream = defaultStreamColumn
	}
	if columns.Power == "" {
		columns.Power = defaultPowerColumn
	}
	return columns
}

func tableFor(dataset *config.DatasetData) string {
	if dataset.Table == "" {
		return defaultTable
	}
	return dataset.Table
}

func locationFor(dataset *config.DatasetData) (*time.Location, error) {
	if dataset.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(dataset.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset timezone: %w", err)
	}
	return loc, nil
}

func layoutFor(dataset *config.DatasetData) string {
	if dataset.TimeLayout == "" {
		return time.RFC3339
	}
	return dataset.TimeLayout
}

// timeBounds parses the optional From/To limits. From is inclusive, To is
// exclusive.
func timeBounds(dataset *config.DatasetData) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if dataset.From != "" {
		t, err := time.Parse(time.RFC3339, dataset.From)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse dataset from bound: %w", err)
		}
		from = &t
	}
	if dataset.To != "" {
		t, err := time.Parse(time.RFC3339, dataset.To)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse dataset to bound: %w", err)
		}
		to = &t
	}

	return from, to, nil
}

func inBounds(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func streamSet(streams []string) map[string]bool {
	if len(streams) == 0 {
		return nil
	}
	set := make(map[string]bool, len(streams))
	for _, stream := range streams {
		set[stream] = true
	}
	return set
}
