package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openpv/clearsky/internal/log"
	"go.uber.org/zap"
)

// Client holds the connection to a TimescaleDB database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the TimescaleDB database
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: false,       // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,        // Use colors
		},
	)

	config := &gorm.Config{
		Logger: dbLogger,
	}

	log.Info("connecting to TimescaleDB...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), config)
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return err
	}
	log.Info("TimescaleDB connection successful")

	return nil
}

// FetchMeasurements retrieves PV power measurements matching the query. Column
// names come from the dataset configuration, so they are aliased onto the
// fixed scan struct.
func (c *Client) FetchMeasurements(q MeasurementQuery) ([]PVMeasurement, error) {
	var measurements []PVMeasurement

	columns := fmt.Sprintf("%s AS time, %s AS stream_id, %s AS power",
		q.TimeColumn, q.StreamColumn, q.PowerColumn)

	tx := c.DB.Table(q.Table).Select(columns)
	if len(q.Streams) > 0 {
		tx = tx.Where(fmt.Sprintf("%s IN ?", q.StreamColumn), q.Streams)
	}
	if q.From != nil {
		tx = tx.Where(fmt.Sprintf("%s >= ?", q.TimeColumn), *q.From)
	}
	if q.To != nil {
		tx = tx.Where(fmt.Sprintf("%s < ?", q.TimeColumn), *q.To)
	}
	tx = tx.Order(fmt.Sprintf("%s ASC", q.TimeColumn))

	if err := tx.Find(&measurements).Error; err != nil {
		return nil, fmt.Errorf("error querying database for measurements: %+v", err)
	}

	return measurements, nil
}

// SaveResults writes a classification run and its accepted days in a single
// transaction. days[i] owns samples[i].
func (c *Client) SaveResults(run *ClearskyRun, days []ClearskyDay, samples [][]ClearskySample) error {
	if len(samples) != len(days) {
		return fmt.Errorf("sample batches (%d) do not match days (%d)", len(samples), len(days))
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i := range days {
			days[i].RunID = run.ID
			if err := tx.Create(&days[i]).Error; err != nil {
				return fmt.Errorf("failed to insert day: %w", err)
			}

			batch := samples[i]
			for j := range batch {
				batch[j].DayID = days[i].ID
			}
			if len(batch) > 0 {
				if err := tx.CreateInBatches(batch, 500).Error; err != nil {
					return fmt.Errorf("failed to insert day samples: %w", err)
				}
			}
		}

		return nil
	})
}
