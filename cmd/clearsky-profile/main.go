// clearsky-profile inspects a PV measurement dataset before classification:
// per-stream sample counts, sampling frequency, per-day point distributions
// and the tuning defaults the classifier would derive. Points at datasets
// whose streams would never clear the minimum-points gate.
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
	"github.com/openpv/clearsky/internal/ingest"
	"github.com/openpv/clearsky/pkg/config"
	"github.com/openpv/clearsky/pkg/solar"
)

// StreamProfile summarizes one PV stream of the dataset
type StreamProfile struct {
	Stream       string
	Samples      int
	First        time.Time
	Last         time.Time
	Days         int
	Frequency    float64
	MaxPower     float64
	DayCountMin  float64
	DayCountMed  float64
	DayCountP90  float64
	DayCountMax  float64
	Params       clearsky.Params
	EligibleDays int
}

func main() {
	// Command line flags
	var (
		csvPath      = flag.String("csv", "", "Profile a CSV file instead of a database")
		dbHost       = flag.String("db-host", "localhost", "Database host")
		dbPort       = flag.Int("db-port", 5432, "Database port")
		dbUser       = flag.String("db-user", "postgres", "Database user")
		dbPass       = flag.String("db-pass", "", "Database password")
		dbName       = flag.String("db-name", "pv", "Database name")
		table        = flag.String("table", "pv_measurements", "Measurement table name")
		timeColumn   = flag.String("time-column", "time", "Time column name")
		streamColumn = flag.String("stream-column", "stream_id", "Stream column name")
		powerColumn  = flag.String("power-column", "power", "Power column name")
		timeLayout   = flag.String("time-layout", "", "Time layout for CSV input, RFC3339 when empty")
		timezone     = flag.String("timezone", "", "Timezone for CSV timestamps, UTC when empty")
		streamFilter = flag.String("streams", "", "Comma-separated stream ids to include")
		daysBack     = flag.Int("days-back", 90, "Days of data to analyze from a database")
		useSolar     = flag.Bool("solar", false, "Compare observed power against clear sky irradiance")
		latitude     = flag.Float64("lat", 48.1, "Site latitude for -solar")
		longitude    = flag.Float64("lon", 11.6, "Site longitude for -solar")
		altitude     = flag.Float64("alt", 520.0, "Site altitude in meters for -solar")
		csvOutput    = flag.String("csv-out", "", "Optional CSV output file for the per-stream profile")
	)
	flag.Parse()

	var streams []string
	if *streamFilter != "" {
		streams = strings.Split(*streamFilter, ",")
	}

	var samples []clearsky.Sample
	var source string
	var err error

	if *csvPath != "" {
		source = fmt.Sprintf("csv %s", *csvPath)
		samples, err = loadCSV(*csvPath, *timeColumn, *streamColumn, *powerColumn, *timeLayout, *timezone, streams)
	} else {
		source = fmt.Sprintf("postgres %s/%s", *dbName, *table)
		samples, err = fetchMeasurements(*dbHost, *dbPort, *dbUser, *dbPass, *dbName,
			*table, *timeColumn, *streamColumn, *powerColumn, streams, *daysBack)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "Error: dataset selected no samples")
		os.Exit(1)
	}

	profiles := profileStreams(samples)

	fmt.Printf("PV Dataset Profile\n")
	fmt.Printf("==================\n\n")
	fmt.Printf("Source:  %s\n", source)
	fmt.Printf("Streams: %d\n", len(profiles))
	fmt.Printf("Samples: %d\n\n", len(samples))

	for _, p := range profiles {
		displayProfile(p)
	}

	if *useSolar {
		displaySolarCheck(profiles, solar.Site{
			Latitude:  *latitude,
			Longitude: *longitude,
			Altitude:  *altitude,
		})
	}

	if *csvOutput != "" {
		if err := exportCSV(*csvOutput, profiles); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			fmt.Printf("\nProfile exported to: %s\n", *csvOutput)
		}
	}
}

func loadCSV(path, timeColumn, streamColumn, powerColumn, timeLayout, timezone string, streams []string) ([]clearsky.Sample, error) {
	dataset := &config.DatasetData{
		Source:     "csv",
		Path:       path,
		TimeLayout: timeLayout,
		Timezone:   timezone,
		Columns: config.ColumnMapData{
			Time:   timeColumn,
			Stream: streamColumn,
			Power:  powerColumn,
		},
		Streams: streams,
	}
	return ingest.Load(dataset, zap.NewNop().Sugar())
}

func fetchMeasurements(host string, port int, user, pass, name, table, timeColumn, streamColumn, powerColumn string, streams []string, daysBack int) ([]clearsky.Sample, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s >= NOW() - INTERVAL '1 day' * $1
		  AND %s IS NOT NULL
	`, timeColumn, streamColumn, powerColumn, table, timeColumn, powerColumn)

	args := []interface{}{daysBack}
	if len(streams) > 0 {
		query += fmt.Sprintf(" AND %s = ANY($2)", streamColumn)
		args = append(args, pq.Array(streams))
	}
	query += fmt.Sprintf(" ORDER BY %s", timeColumn)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	var samples []clearsky.Sample
	for rows.Next() {
		var s clearsky.Sample
		if err := rows.Scan(&s.Time, &s.Stream, &s.Power); err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning row: %v\n", err)
			continue
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

func profileStreams(samples []clearsky.Sample) []StreamProfile {
	var profiles []StreamProfile

	for _, series := range clearsky.SplitStreams(samples) {
		p := StreamProfile{
			Stream:  series.ID,
			Samples: len(series.Samples),
			First:   series.Samples[0].Time,
			Last:    series.Samples[0].Time,
		}

		dayCounts := make(map[string]int)
		for _, s := range series.Samples {
			if s.Time.Before(p.First) {
				p.First = s.Time
			}
			if s.Time.After(p.Last) {
				p.Last = s.Time
			}
			if s.Power > p.MaxPower {
				p.MaxPower = s.Power
			}
			dayCounts[s.Time.Format("2006-01-02")]++
		}
		p.Days = len(dayCounts)

		counts := make([]float64, 0, len(dayCounts))
		for _, c := range dayCounts {
			counts = append(counts, float64(c))
		}
		sort.Float64s(counts)
		p.DayCountMin, _ = stats.Min(counts)
		p.DayCountMed, _ = stats.Median(counts)
		p.DayCountP90, _ = stats.Percentile(counts, 90)
		p.DayCountMax, _ = stats.Max(counts)

		p.Frequency = clearsky.EstimateFrequency(series.Samples)
		p.Params, _ = clearsky.ResolveParams(clearsky.Options{}, p.Frequency, p.MaxPower)

		for _, c := range dayCounts {
			if c > p.Params.MinPoints {
				p.EligibleDays++
			}
		}

		profiles = append(profiles, p)
	}

	return profiles
}

func displayProfile(p StreamProfile) {
	fmt.Printf("Stream %s\n", p.Stream)
	fmt.Printf("  samples:            %d\n", p.Samples)
	fmt.Printf("  span:               %s - %s (%d days)\n",
		p.First.Format("2006-01-02 15:04"), p.Last.Format("2006-01-02 15:04"), p.Days)
	fmt.Printf("  sampling frequency: %.2f minutes (median spacing)\n", p.Frequency)
	fmt.Printf("  max power:          %.2f\n", p.MaxPower)
	fmt.Printf("  points per day:     min %.0f / median %.0f / p90 %.0f / max %.0f\n",
		p.DayCountMin, p.DayCountMed, p.DayCountP90, p.DayCountMax)
	fmt.Printf("  derived defaults:   min_points=%d pre_smooth=%d post_smooth=%d gap_threshold=%.1f max_deviation=%.2f max_exceeds=%d\n",
		p.Params.MinPoints, p.Params.PreSmoothWindow, p.Params.PostSmoothWindow,
		p.Params.GapThreshold, p.Params.MaxDeviation, p.Params.MaxExceedCount)
	fmt.Printf("  eligible days:      %d of %d exceed min_points\n\n", p.EligibleDays, p.Days)
}

func displaySolarCheck(profiles []StreamProfile, site solar.Site) {
	fmt.Printf("Clear Sky Check (%.2f, %.2f, %.0f m)\n", site.Latitude, site.Longitude, site.Altitude)
	fmt.Printf("------------------------------------\n")

	for _, p := range profiles {
		// Probe clear sky irradiance at solar noon in the middle of the span.
		mid := p.First.Add(p.Last.Sub(p.First) / 2)
		sunrise, sunset, ok := site.Daylight(mid)
		if !ok {
			fmt.Printf("  %s: polar conditions, no clear sky reference\n", p.Stream)
			continue
		}

		noonMinute := (sunrise + sunset) / 2
		noon := time.Date(mid.Year(), mid.Month(), mid.Day(), 0, 0, 0, 0, time.UTC).
			Add(time.Duration(noonMinute * float64(time.Minute)))
		ghi := site.ClearSkyGHI(noon)
		if ghi <= 0 {
			fmt.Printf("  %s: sun below horizon at estimated noon\n", p.Stream)
			continue
		}

		implied := p.MaxPower / (ghi / 1000.0)
		fmt.Printf("  %s: noon GHI %.0f W/m² on %s, max power %.2f implies ~%.2f kW at 1000 W/m²\n",
			p.Stream, ghi, noon.Format("2006-01-02"), p.MaxPower, implied)
	}
	fmt.Println()
}

func exportCSV(path string, profiles []StreamProfile) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{"stream", "samples", "days", "frequency_minutes", "max_power",
		"day_count_median", "min_points", "eligible_days"}
	if err := writer.Write(header); err != nil {
		return err
	}

	// Write data
	for _, p := range profiles {
		row := []string{
			p.Stream,
			strconv.Itoa(p.Samples),
			strconv.Itoa(p.Days),
			strconv.FormatFloat(p.Frequency, 'f', 3, 64),
			strconv.FormatFloat(p.MaxPower, 'f', 3, 64),
			strconv.FormatFloat(p.DayCountMed, 'f', 0, 64),
			strconv.Itoa(p.Params.MinPoints),
			strconv.Itoa(p.EligibleDays),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
