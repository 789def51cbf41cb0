package database

import "time"

// PVMeasurement represents a power reading in the measurement table.
// FetchMeasurements aliases the configured columns onto these names.
type PVMeasurement struct {
	Time   time.Time `gorm:"column:time"`
	Stream string    `gorm:"column:stream_id"`
	Power  float64   `gorm:"column:power"`
}

// TableName implements the Tabler interface for the PVMeasurement struct
func (PVMeasurement) TableName() string {
	return "pv_measurements"
}

// MeasurementQuery describes which measurements FetchMeasurements should
// return. Streams, From and To are optional filters.
type MeasurementQuery struct {
	Table        string
	TimeColumn   string
	StreamColumn string
	PowerColumn  string
	Streams      []string
	From         *time.Time
	To           *time.Time
}
