package database

import (
	"time"
)

// ClearskyRun represents one classification run in the database
type ClearskyRun struct {
	ID                 string    `gorm:"primaryKey;column:id"`
	StartedAt          time.Time `gorm:"column:started_at;not null"`
	FinishedAt         time.Time `gorm:"column:finished_at;not null"`
	ComparisonInterval string    `gorm:"column:comparison_interval"`
	Percentile         float64   `gorm:"column:percentile"`
	CorrThreshold      float64   `gorm:"column:corr_threshold"`
	StreamCount        int       `gorm:"column:stream_count"`
	DayCount           int       `gorm:"column:day_count"`
}

// TableName specifies the table name for ClearskyRun
func (ClearskyRun) TableName() string {
	return "clearsky_runs"
}

// ClearskyDay represents an accepted clear sky day in the database
type ClearskyDay struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id"`
	RunID       string    `gorm:"column:run_id;not null"`
	Stream      string    `gorm:"column:stream_id;not null"`
	Date        time.Time `gorm:"column:day;not null"`
	Correlation float64   `gorm:"column:correlation"`
	SampleCount int       `gorm:"column:sample_count"`
}

// TableName specifies the table name for ClearskyDay
func (ClearskyDay) TableName() string {
	return "clearsky_days"
}

// ClearskySample represents one measurement belonging to an accepted day
type ClearskySample struct {
	ID    uint      `gorm:"primaryKey;autoIncrement;column:id"`
	DayID uint      `gorm:"column:day_id;not null"`
	Time  time.Time `gorm:"column:measured_at;not null"`
	Power float64   `gorm:"column:power"`
}

// TableName specifies the table name for ClearskySample
func (ClearskySample) TableName() string {
	return "clearsky_samples"
}
