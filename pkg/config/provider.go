// Package config loads classifier configuration from YAML files or SQLite
// databases behind a common provider interface.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetDataset() (*DatasetData, error)
	GetPipeline() (*PipelineData, error)
	GetOutput() (*OutputData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Dataset  DatasetData  `json:"dataset"`
	Pipeline PipelineData `json:"pipeline,omitempty"`
	Output   OutputData   `json:"output,omitempty"`
	Solar    *SolarData   `json:"solar,omitempty"`
}

// DatasetData locates the measurement series to classify
type DatasetData struct {
	Source           string        `json:"source"`
	Path             string        `json:"path,omitempty"`
	ConnectionString string        `json:"connection_string,omitempty"`
	Table            string        `json:"table,omitempty"`
	Timezone         string        `json:"timezone,omitempty"`
	TimeLayout       string        `json:"time_layout,omitempty"`
	Columns          ColumnMapData `json:"columns,omitempty"`
	Streams          []string      `json:"streams,omitempty"`
	From             string        `json:"from,omitempty"`
	To               string        `json:"to,omitempty"`
}

// ColumnMapData names the dataset columns holding each sample field
type ColumnMapData struct {
	Time   string `json:"time,omitempty"`
	Power  string `json:"power,omitempty"`
	Stream string `json:"stream,omitempty"`
}

// PipelineData holds the classifier tuning knobs. Pointer fields left null
// fall back to frequency-derived defaults per stream.
type PipelineData struct {
	ComparisonInterval string   `json:"comparison_interval,omitempty"`
	Percentile         float64  `json:"percentile,omitempty"`
	CorrThreshold      float64  `json:"corr_threshold,omitempty"`
	FirstLastLimit     float64  `json:"first_last_limit,omitempty"`
	MinPoints          *int     `json:"min_points,omitempty"`
	PreSmoothWindow    *int     `json:"pre_smooth_window,omitempty"`
	PostSmoothWindow   *int     `json:"post_smooth_window,omitempty"`
	GapThreshold       *float64 `json:"gap_threshold,omitempty"`
	MaxDeviation       *float64 `json:"max_deviation,omitempty"`
	MaxExceedCount     *int     `json:"max_exceed_count,omitempty"`
	Workers            int      `json:"workers,omitempty"`
}

// OutputData selects where accepted clear sky days are written
type OutputData struct {
	Format           string `json:"format,omitempty"`
	Path             string `json:"path,omitempty"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// SolarData holds the site location for irradiance estimates
type SolarData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// ParseInterval parses a duration that may carry a day suffix, like "30d".
// Everything else goes through time.ParseDuration.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day interval %q: %w", s, err)
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}
	return time.ParseDuration(s)
}

// Validate checks a loaded configuration for structural problems before the
// pipeline starts.
func Validate(c *ConfigData) error {
	switch c.Dataset.Source {
	case "csv":
		if c.Dataset.Path == "" {
			return fmt.Errorf("dataset: csv source requires a path")
		}
	case "timescaledb":
		if c.Dataset.ConnectionString == "" {
			return fmt.Errorf("dataset: timescaledb source requires a connection string")
		}
	case "":
		return fmt.Errorf("dataset: source is required")
	default:
		return fmt.Errorf("dataset: unsupported source %q", c.Dataset.Source)
	}

	if c.Dataset.Timezone != "" {
		if _, err := time.LoadLocation(c.Dataset.Timezone); err != nil {
			return fmt.Errorf("dataset: invalid timezone %q: %w", c.Dataset.Timezone, err)
		}
	}
	for _, field := range []string{c.Dataset.From, c.Dataset.To} {
		if field == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, field); err != nil {
			return fmt.Errorf("dataset: invalid time bound %q: %w", field, err)
		}
	}

	if c.Pipeline.ComparisonInterval != "" {
		if _, err := ParseInterval(c.Pipeline.ComparisonInterval); err != nil {
			return fmt.Errorf("pipeline: invalid comparison interval: %w", err)
		}
	}
	if c.Pipeline.Percentile < 0 || c.Pipeline.Percentile > 1 {
		return fmt.Errorf("pipeline: percentile %v outside [0, 1]", c.Pipeline.Percentile)
	}
	if c.Pipeline.CorrThreshold < 0 || c.Pipeline.CorrThreshold > 1 {
		return fmt.Errorf("pipeline: correlation threshold %v outside [0, 1]", c.Pipeline.CorrThreshold)
	}
	if c.Pipeline.FirstLastLimit < 0 {
		return fmt.Errorf("pipeline: first/last power limit %v is negative", c.Pipeline.FirstLastLimit)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline: worker count %d is negative", c.Pipeline.Workers)
	}

	switch c.Output.Format {
	case "":
		// Summary-only runs write nothing.
	case "csv", "msgpack":
		if c.Output.Path == "" {
			return fmt.Errorf("output: %s format requires a path", c.Output.Format)
		}
	case "timescaledb":
		if c.Output.ConnectionString == "" {
			return fmt.Errorf("output: timescaledb format requires a connection string")
		}
	default:
		return fmt.Errorf("output: unsupported format %q", c.Output.Format)
	}

	if c.Solar != nil {
		if c.Solar.Latitude < -90 || c.Solar.Latitude > 90 {
			return fmt.Errorf("solar: latitude %v outside [-90, 90]", c.Solar.Latitude)
		}
		if c.Solar.Longitude < -180 || c.Solar.Longitude > 180 {
			return fmt.Errorf("solar: longitude %v outside [-180, 180]", c.Solar.Longitude)
		}
	}

	return nil
}
