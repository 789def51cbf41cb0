package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	dataset, err := s.GetDataset()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset config: %w", err)
	}
	config.Dataset = *dataset

	pipeline, err := s.GetPipeline()
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config: %w", err)
	}
	config.Pipeline = *pipeline

	output, err := s.GetOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to load output config: %w", err)
	}
	config.Output = *output

	solar, err := s.getSolar()
	if err != nil {
		return nil, fmt.Errorf("failed to load solar config: %w", err)
	}
	config.Solar = solar

	return config, nil
}

// GetDataset returns the dataset configuration from the database
func (s *SQLiteProvider) GetDataset() (*DatasetData, error) {
	query := `
		SELECT source, path, connection_string, table_name, timezone, time_layout,
		       time_column, power_column, stream_column, date_from, date_to
		FROM dataset_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var dataset DatasetData
	var path, connectionString, tableName, timezone, timeLayout sql.NullString
	var timeColumn, powerColumn, streamColumn, dateFrom, dateTo sql.NullString

	err := s.db.QueryRow(query).Scan(
		&dataset.Source, &path, &connectionString, &tableName, &timezone,
		&timeLayout, &timeColumn, &powerColumn, &streamColumn, &dateFrom, &dateTo,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no dataset configuration found")
		}
		return nil, fmt.Errorf("failed to query dataset config: %w", err)
	}

	dataset.Path = path.String
	dataset.ConnectionString = connectionString.String
	dataset.Table = tableName.String
	dataset.Timezone = timezone.String
	dataset.TimeLayout = timeLayout.String
	dataset.Columns = ColumnMapData{
		Time:   timeColumn.String,
		Power:  powerColumn.String,
		Stream: streamColumn.String,
	}
	dataset.From = dateFrom.String
	dataset.To = dateTo.String

	streams, err := s.getDatasetStreams()
	if err != nil {
		return nil, err
	}
	dataset.Streams = streams

	return &dataset, nil
}

func (s *SQLiteProvider) getDatasetStreams() ([]string, error) {
	query := `
		SELECT stream_id
		FROM dataset_streams
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY position
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset streams: %w", err)
	}
	defer rows.Close()

	var streams []string
	for rows.Next() {
		var stream string
		if err := rows.Scan(&stream); err != nil {
			return nil, fmt.Errorf("failed to scan stream row: %w", err)
		}
		streams = append(streams, stream)
	}

	return streams, rows.Err()
}

// GetPipeline returns the pipeline configuration from the database. NULL
// tunables stay nil so the classifier resolves them per stream.
func (s *SQLiteProvider) GetPipeline() (*PipelineData, error) {
	query := `
		SELECT comparison_interval, percentile, corr_threshold, first_last_limit,
		       min_points, pre_smooth_window, post_smooth_window,
		       gap_threshold, max_deviation, max_exceed_count, workers
		FROM pipeline_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	pipeline := &PipelineData{}
	var interval sql.NullString
	var percentile, corrThreshold, firstLastLimit sql.NullFloat64
	var minPoints, preSmooth, postSmooth, maxExceeds, workers sql.NullInt64
	var gapThreshold, maxDeviation sql.NullFloat64

	err := s.db.QueryRow(query).Scan(
		&interval, &percentile, &corrThreshold, &firstLastLimit,
		&minPoints, &preSmooth, &postSmooth,
		&gapThreshold, &maxDeviation, &maxExceeds, &workers,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// A missing pipeline section means all defaults.
			return pipeline, nil
		}
		return nil, fmt.Errorf("failed to query pipeline config: %w", err)
	}

	pipeline.ComparisonInterval = interval.String
	pipeline.Percentile = percentile.Float64
	pipeline.CorrThreshold = corrThreshold.Float64
	pipeline.FirstLastLimit = firstLastLimit.Float64

	if minPoints.Valid {
		v := int(minPoints.Int64)
		pipeline.MinPoints = &v
	}
	if preSmooth.Valid {
		v := int(preSmooth.Int64)
		pipeline.PreSmoothWindow = &v
	}
	if postSmooth.Valid {
		v := int(postSmooth.Int64)
		pipeline.PostSmoothWindow = &v
	}
	if gapThreshold.Valid {
		v := gapThreshold.Float64
		pipeline.GapThreshold = &v
	}
	if maxDeviation.Valid {
		v := maxDeviation.Float64
		pipeline.MaxDeviation = &v
	}
	if maxExceeds.Valid {
		v := int(maxExceeds.Int64)
		pipeline.MaxExceedCount = &v
	}
	if workers.Valid {
		pipeline.Workers = int(workers.Int64)
	}

	return pipeline, nil
}

// GetOutput returns the output configuration from the database
func (s *SQLiteProvider) GetOutput() (*OutputData, error) {
	query := `
		SELECT format, path, connection_string
		FROM output_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	output := &OutputData{}
	var format, path, connectionString sql.NullString

	err := s.db.QueryRow(query).Scan(&format, &path, &connectionString)
	if err != nil {
		if err == sql.ErrNoRows {
			// A missing output section means summary-only runs.
			return output, nil
		}
		return nil, fmt.Errorf("failed to query output config: %w", err)
	}

	output.Format = format.String
	output.Path = path.String
	output.ConnectionString = connectionString.String

	return output, nil
}

func (s *SQLiteProvider) getSolar() (*SolarData, error) {
	query := `
		SELECT latitude, longitude, altitude
		FROM solar_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var solar SolarData
	err := s.db.QueryRow(query).Scan(&solar.Latitude, &solar.Longitude, &solar.Altitude)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query solar config: %w", err)
	}

	return &solar, nil
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig writes a complete configuration into the database, creating the
// schema when missing. Used by the YAML-to-SQLite migration path.
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	if err := s.insertDataset(tx, configID, &configData.Dataset); err != nil {
		return fmt.Errorf("failed to insert dataset config: %w", err)
	}
	if err := s.insertPipeline(tx, configID, &configData.Pipeline); err != nil {
		return fmt.Errorf("failed to insert pipeline config: %w", err)
	}
	if err := s.insertOutput(tx, configID, &configData.Output); err != nil {
		return fmt.Errorf("failed to insert output config: %w", err)
	}
	if configData.Solar != nil {
		if err := s.insertSolar(tx, configID, configData.Solar); err != nil {
			return fmt.Errorf("failed to insert solar config: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS configs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			source TEXT NOT NULL,
			path TEXT,
			connection_string TEXT,
			table_name TEXT,
			timezone TEXT,
			time_layout TEXT,
			time_column TEXT,
			power_column TEXT,
			stream_column TEXT,
			date_from TEXT,
			date_to TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_streams (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			stream_id TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pipeline_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			comparison_interval TEXT,
			percentile REAL,
			corr_threshold REAL,
			first_last_limit REAL,
			min_points INTEGER,
			pre_smooth_window INTEGER,
			post_smooth_window INTEGER,
			gap_threshold REAL,
			max_deviation REAL,
			max_exceed_count INTEGER,
			workers INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS output_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			format TEXT,
			path TEXT,
			connection_string TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS solar_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			altitude REAL NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM dataset_configs WHERE config_id = ?",
		"DELETE FROM dataset_streams WHERE config_id = ?",
		"DELETE FROM pipeline_configs WHERE config_id = ?",
		"DELETE FROM output_configs WHERE config_id = ?",
		"DELETE FROM solar_configs WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertDataset(tx *sql.Tx, configID int64, dataset *DatasetData) error {
	query := `
		INSERT INTO dataset_configs (
			config_id, source, path, connection_string, table_name, timezone,
			time_layout, time_column, power_column, stream_column, date_from, date_to
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		configID, dataset.Source,
		nullString(dataset.Path), nullString(dataset.ConnectionString),
		nullString(dataset.Table), nullString(dataset.Timezone),
		nullString(dataset.TimeLayout), nullString(dataset.Columns.Time),
		nullString(dataset.Columns.Power), nullString(dataset.Columns.Stream),
		nullString(dataset.From), nullString(dataset.To),
	)
	if err != nil {
		return err
	}

	for i, stream := range dataset.Streams {
		_, err := tx.Exec(
			"INSERT INTO dataset_streams (config_id, stream_id, position) VALUES (?, ?, ?)",
			configID, stream, i,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertPipeline(tx *sql.Tx, configID int64, pipeline *PipelineData) error {
	query := `
		INSERT INTO pipeline_configs (
			config_id, comparison_interval, percentile, corr_threshold, first_last_limit,
			min_points, pre_smooth_window, post_smooth_window,
			gap_threshold, max_deviation, max_exceed_count, workers
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		configID,
		nullString(pipeline.ComparisonInterval),
		pipeline.Percentile, pipeline.CorrThreshold, pipeline.FirstLastLimit,
		nullIntPtr(pipeline.MinPoints), nullIntPtr(pipeline.PreSmoothWindow),
		nullIntPtr(pipeline.PostSmoothWindow),
		nullFloatPtr(pipeline.GapThreshold), nullFloatPtr(pipeline.MaxDeviation),
		nullIntPtr(pipeline.MaxExceedCount), pipeline.Workers,
	)
	return err
}

func (s *SQLiteProvider) insertOutput(tx *sql.Tx, configID int64, output *OutputData) error {
	query := `
		INSERT INTO output_configs (config_id, format, path, connection_string)
		VALUES (?, ?, ?, ?)
	`

	_, err := tx.Exec(query, configID,
		nullString(output.Format), nullString(output.Path),
		nullString(output.ConnectionString),
	)
	return err
}

func (s *SQLiteProvider) insertSolar(tx *sql.Tx, configID int64, solar *SolarData) error {
	query := `
		INSERT INTO solar_configs (config_id, latitude, longitude, altitude)
		VALUES (?, ?, ?, ?)
	`

	_, err := tx.Exec(query, configID, solar.Latitude, solar.Longitude, solar.Altitude)
	return err
}

// getConfigID gets the existing config ID
func (s *SQLiteProvider) getConfigID(tx *sql.Tx) (int64, error) {
	var configID int64
	err := tx.QueryRow("SELECT id FROM configs WHERE name = 'default'").Scan(&configID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("no configuration found")
		}
		return 0, err
	}
	return configID, nil
}

// getOrCreateConfigID gets the existing config ID or creates a new one
func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	configID, err := s.getConfigID(tx)
	if err == nil {
		_, err = tx.Exec("UPDATE configs SET updated_at = datetime('now') WHERE id = ?", configID)
		return configID, err
	}

	result, err := tx.Exec(
		"INSERT INTO configs (name, created_at, updated_at) VALUES ('default', datetime('now'), datetime('now'))",
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create default config: %w", err)
	}
	return result.LastInsertId()
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloatPtr(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
