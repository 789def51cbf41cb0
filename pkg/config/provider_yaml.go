package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Dataset  DatasetYAML  `yaml:"dataset"`
		Pipeline PipelineYAML `yaml:"pipeline,omitempty"`
		Output   OutputYAML   `yaml:"output,omitempty"`
		Solar    *SolarYAML   `yaml:"solar,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Dataset: DatasetData{
			Source:           yamlConfig.Dataset.Source,
			Path:             yamlConfig.Dataset.Path,
			ConnectionString: yamlConfig.Dataset.ConnectionString,
			Table:            yamlConfig.Dataset.Table,
			Timezone:         yamlConfig.Dataset.Timezone,
			TimeLayout:       yamlConfig.Dataset.TimeLayout,
			Columns: ColumnMapData{
				Time:   yamlConfig.Dataset.Columns.Time,
				Power:  yamlConfig.Dataset.Columns.Power,
				Stream: yamlConfig.Dataset.Columns.Stream,
			},
			Streams: yamlConfig.Dataset.Streams,
			From:    yamlConfig.Dataset.From,
			To:      yamlConfig.Dataset.To,
		},
		Pipeline: PipelineData{
			ComparisonInterval: yamlConfig.Pipeline.ComparisonInterval,
			Percentile:         yamlConfig.Pipeline.Percentile,
			CorrThreshold:      yamlConfig.Pipeline.CorrThreshold,
			FirstLastLimit:     yamlConfig.Pipeline.FirstLastLimit,
			MinPoints:          yamlConfig.Pipeline.MinPoints,
			PreSmoothWindow:    yamlConfig.Pipeline.PreSmoothWindow,
			PostSmoothWindow:   yamlConfig.Pipeline.PostSmoothWindow,
			GapThreshold:       yamlConfig.Pipeline.GapThreshold,
			MaxDeviation:       yamlConfig.Pipeline.MaxDeviation,
			MaxExceedCount:     yamlConfig.Pipeline.MaxExceedCount,
			Workers:            yamlConfig.Pipeline.Workers,
		},
		Output: OutputData{
			Format:           yamlConfig.Output.Format,
			Path:             yamlConfig.Output.Path,
			ConnectionString: yamlConfig.Output.ConnectionString,
		},
	}

	if yamlConfig.Solar != nil {
		config.Solar = &SolarData{
			Latitude:  yamlConfig.Solar.Latitude,
			Longitude: yamlConfig.Solar.Longitude,
			Altitude:  yamlConfig.Solar.Altitude,
		}
	}

	y.config = config
	return config, nil
}

// GetDataset returns the dataset configuration
func (y *YAMLProvider) GetDataset() (*DatasetData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Dataset, nil
}

// GetPipeline returns the pipeline configuration
func (y *YAMLProvider) GetPipeline() (*PipelineData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Pipeline, nil
}

// GetOutput returns the output configuration
func (y *YAMLProvider) GetOutput() (*OutputData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Output, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type DatasetYAML struct {
	Source           string      `yaml:"source"`
	Path             string      `yaml:"path,omitempty"`
	ConnectionString string      `yaml:"connection-string,omitempty"`
	Table            string      `yaml:"table,omitempty"`
	Timezone         string      `yaml:"timezone,omitempty"`
	TimeLayout       string      `yaml:"time-layout,omitempty"`
	Columns          ColumnsYAML `yaml:"columns,omitempty"`
	Streams          []string    `yaml:"streams,omitempty"`
	From             string      `yaml:"from,omitempty"`
	To               string      `yaml:"to,omitempty"`
}

type ColumnsYAML struct {
	Time   string `yaml:"time,omitempty"`
	Power  string `yaml:"power,omitempty"`
	Stream string `yaml:"stream,omitempty"`
}

type PipelineYAML struct {
	ComparisonInterval string   `yaml:"comparison-interval,omitempty"`
	Percentile         float64  `yaml:"percentile,omitempty"`
	CorrThreshold      float64  `yaml:"corr-threshold,omitempty"`
	FirstLastLimit     float64  `yaml:"first-last-limit,omitempty"`
	MinPoints          *int     `yaml:"min-points,omitempty"`
	PreSmoothWindow    *int     `yaml:"pre-smooth-window,omitempty"`
	PostSmoothWindow   *int     `yaml:"post-smooth-window,omitempty"`
	GapThreshold       *float64 `yaml:"gap-threshold,omitempty"`
	MaxDeviation       *float64 `yaml:"max-deviation,omitempty"`
	MaxExceedCount     *int     `yaml:"max-exceed-count,omitempty"`
	Workers            int      `yaml:"workers,omitempty"`
}

type OutputYAML struct {
	Format           string `yaml:"format,omitempty"`
	Path             string `yaml:"path,omitempty"`
	ConnectionString string `yaml:"connection-string,omitempty"`
}

type SolarYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
}
