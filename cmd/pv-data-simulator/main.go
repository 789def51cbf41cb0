// pv-data-simulator generates synthetic PV power measurements for testing
// the clear sky classifier. Each stream gets its own capacity, and each day
// is rolled clear or cloudy; cloudy days attenuate the clear sky curve with
// a slowly drifting cloud factor.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/openpv/clearsky/internal/database"
	"github.com/openpv/clearsky/pkg/solar"
)

const dateLayout = "2006-01-02"

type simulatorConfig struct {
	Streams          int
	Days             int
	Start            string
	Step             time.Duration
	Latitude         float64
	Longitude        float64
	Altitude         float64
	Capacity         float64
	ClearFraction    float64
	Seed             int64
	Format           string
	Out              string
	ConnectionString string
}

func main() {
	var cfg simulatorConfig

	flag.IntVar(&cfg.Streams, "streams", 3, "Number of PV streams to simulate")
	flag.IntVar(&cfg.Days, "days", 60, "Number of days to generate")
	flag.StringVar(&cfg.Start, "start", "2024-04-01", "First day to generate (YYYY-MM-DD)")
	flag.DurationVar(&cfg.Step, "step", 5*time.Minute, "Sampling interval")
	flag.Float64Var(&cfg.Latitude, "lat", 48.1, "Site latitude in degrees")
	flag.Float64Var(&cfg.Longitude, "lon", 11.6, "Site longitude in degrees")
	flag.Float64Var(&cfg.Altitude, "alt", 520, "Site altitude in meters")
	flag.Float64Var(&cfg.Capacity, "capacity", 8.0, "Nominal plant capacity in kW")
	flag.Float64Var(&cfg.ClearFraction, "clear-fraction", 0.6, "Fraction of days rolled as clear")
	flag.Int64Var(&cfg.Seed, "seed", 42, "Random seed, fixed for reproducible datasets")
	flag.StringVar(&cfg.Format, "format", "csv", "Output format: 'csv' or 'timescaledb'")
	flag.StringVar(&cfg.Out, "out", "pv_measurements.csv", "Output file for csv format")
	flag.StringVar(&cfg.ConnectionString, "connection-string", "", "Database connection string for timescaledb format")
	flag.Parse()

	logger := log.New(os.Stdout, "[pv-data-simulator] ", log.LstdFlags)

	start, err := time.Parse(dateLayout, cfg.Start)
	if err != nil {
		logger.Fatalf("Invalid -start date: %v", err)
	}
	if cfg.Streams < 1 || cfg.Days < 1 {
		logger.Fatal("-streams and -days must be at least 1")
	}
	if cfg.Step < time.Minute {
		logger.Fatalf("-step %v is below one minute", cfg.Step)
	}

	measurements := generate(cfg, start, logger)
	logger.Printf("Generated %d measurements for %d streams over %d days",
		len(measurements), cfg.Streams, cfg.Days)

	switch cfg.Format {
	case "csv":
		err = writeCSV(cfg.Out, measurements)
		if err == nil {
			logger.Printf("Wrote %s", cfg.Out)
		}
	case "timescaledb":
		if cfg.ConnectionString == "" {
			logger.Fatal("-connection-string is required for timescaledb format")
		}
		err = writeDatabase(cfg.ConnectionString, measurements, logger)
	default:
		logger.Fatalf("Unsupported format %q", cfg.Format)
	}
	if err != nil {
		logger.Fatalf("Failed to write output: %v", err)
	}
}

func generate(cfg simulatorConfig, start time.Time, logger *log.Logger) []database.PVMeasurement {
	rng := rand.New(rand.NewSource(cfg.Seed))
	site := solar.Site{Latitude: cfg.Latitude, Longitude: cfg.Longitude, Altitude: cfg.Altitude}

	var measurements []database.PVMeasurement

	for s := 0; s < cfg.Streams; s++ {
		stream := fmt.Sprintf("pv-%03d", s+1)
		// Plants differ a little in installed capacity.
		capacity := cfg.Capacity * (0.85 + 0.3*rng.Float64())

		clearDays := 0
		for d := 0; d < cfg.Days; d++ {
			day := start.AddDate(0, 0, d)
			clear := rng.Float64() < cfg.ClearFraction
			if clear {
				clearDays++
			}

			// Cloud cover drifts through the day instead of jumping.
			attenuation := 0.3 + 0.4*rng.Float64()

			for t := day; t.Before(day.AddDate(0, 0, 1)); t = t.Add(cfg.Step) {
				ghi := site.ClearSkyGHI(t)
				power := capacity * ghi / 1000.0

				if clear {
					// Clear days track the model with sensor-level noise.
					power *= 0.99 + 0.02*rng.Float64()
				} else {
					attenuation += (rng.Float64() - 0.5) * 0.1
					if attenuation < 0.15 {
						attenuation = 0.15
					}
					if attenuation > 0.95 {
						attenuation = 0.95
					}
					power *= attenuation
				}

				measurements = append(measurements, database.PVMeasurement{
					Time:   t,
					Stream: stream,
					Power:  power,
				})
			}
		}

		logger.Printf("Stream %s: capacity %.2f kW, %d of %d days clear",
			stream, capacity, clearDays, cfg.Days)
	}

	return measurements
}

func writeCSV(path string, measurements []database.PVMeasurement) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"time", "stream_id", "power"}); err != nil {
		return err
	}
	for _, m := range measurements {
		row := []string{
			m.Time.UTC().Format(time.RFC3339),
			m.Stream,
			strconv.FormatFloat(m.Power, 'f', 4, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeDatabase(connectionString string, measurements []database.PVMeasurement, logger *log.Logger) error {
	client := database.NewClient(connectionString, nil)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.DB.AutoMigrate(&database.PVMeasurement{}); err != nil {
		return fmt.Errorf("failed to migrate measurement table: %w", err)
	}

	if err := client.DB.CreateInBatches(measurements, 1000).Error; err != nil {
		return fmt.Errorf("failed to insert measurements: %w", err)
	}

	logger.Printf("Inserted %d measurements", len(measurements))
	return nil
}
