// Command import loads a JSON file of birth records into the SQLite
// database as saved charts.
//
// Usage:
//
//	go run ./cmd/import -json data/charts.json -db data/almanac.db
//
// The file holds {"charts": [{"id": "...", "label": "...", "datetime":
// "1998-07-10 13:00:00", "sex": "male"}, ...]}. The id is optional; records
// whose id already exists are skipped, so the import can be rerun.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
	"github.com/zapponejosh/lunisolar-api/internal/database"
)

// ImportFile is the layout of the JSON file.
type ImportFile struct {
	Charts []ImportChart `json:"charts"`
}

// ImportChart is one birth record.
type ImportChart struct {
	ID       string  `json:"id,omitempty"`
	Label    *string `json:"label,omitempty"`
	Datetime string  `json:"datetime"`
	Sex      string  `json:"sex"`
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Created int
	Skipped int
	Invalid int
}

func main() {
	// Parse command line flags
	jsonPath := flag.String("json", "data/charts.json", "Path to JSON file")
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*jsonPath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(jsonPath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	logger.Info("parsed JSON", slog.Int("charts", len(file.Charts)))

	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	stats, err := importCharts(ctx, db, file.Charts, logger)
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	elapsed := time.Since(startTime)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Charts created:      %d\n", stats.Created)
	fmt.Printf("Already present:     %d\n", stats.Skipped)
	fmt.Printf("Invalid records:     %d\n", stats.Invalid)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// importCharts computes and stores each record. Records that fail
// validation are logged and counted; database errors abort the import.
func importCharts(ctx context.Context, db *database.DB, records []ImportChart, logger *slog.Logger) (ImportStats, error) {
	var stats ImportStats

	for i, rec := range records {
		saved, err := buildChart(rec)
		if err != nil {
			logger.Warn("skipping invalid record", slog.Int("record", i+1), slog.Any("error", err))
			stats.Invalid++
			continue
		}

		err = db.CreateChart(ctx, saved)
		switch {
		case errors.Is(err, database.ErrDuplicate):
			stats.Skipped++
			continue
		case err != nil:
			return stats, fmt.Errorf("record %d: %w", i+1, err)
		}

		stats.Created++
		logger.Debug("chart created", slog.String("id", saved.ID), slog.String("bazi", saved.BaZi))
	}

	return stats, nil
}

func buildChart(rec ImportChart) (*database.SavedChart, error) {
	if rec.ID != "" {
		if _, err := uuid.Parse(rec.ID); err != nil {
			return nil, fmt.Errorf("id %q: %w", rec.ID, err)
		}
	}

	var at calendar.CivilTime
	n, err := fmt.Sscanf(strings.Replace(rec.Datetime, "T", " ", 1), "%d-%d-%d %d:%d:%d",
		&at.Year, &at.Month, &at.Day, &at.Hour, &at.Minute, &at.Second)
	if err != nil && n < 3 {
		return nil, fmt.Errorf("datetime %q: %w", rec.Datetime, err)
	}

	var male bool
	switch strings.ToLower(rec.Sex) {
	case "male", "m":
		male = true
	case "female", "f":
	default:
		return nil, fmt.Errorf("sex %q: use male or female", rec.Sex)
	}

	c, err := calendar.Fate(male, at.Year, at.Month, at.Day, at.Hour, at.Minute, at.Second)
	if err != nil {
		return nil, err
	}

	return &database.SavedChart{
		ID:    rec.ID,
		Label: rec.Label,
		Male:  male,
		Birth: at,
		BaZi:  c.BaZi(),
		Chart: c,
	}, nil
}
