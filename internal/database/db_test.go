package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// testChart computes the chart used throughout these tests.
func testChart(t *testing.T) *SavedChart {
	t.Helper()

	birth := calendar.CivilTime{Year: 1998, Month: 7, Day: 10, Hour: 13}
	chart, err := calendar.Fate(true, birth.Year, birth.Month, birth.Day, birth.Hour, birth.Minute, birth.Second)
	if err != nil {
		t.Fatalf("compute chart: %v", err)
	}

	return &SavedChart{
		Label: strPtr("test"),
		Male:  true,
		Birth: birth,
		BaZi:  chart.BaZi(),
		Chart: chart,
	}
}

func strPtr(s string) *string {
	return &s
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "almanac.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := Open(DefaultConfig(path), logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout, fk int
	if err := db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{":memory:", ":memory:?_busy_timeout=5000&_foreign_keys=on"},
		{"data/a.db", "data/a.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared&_busy_timeout=5000&_foreign_keys=on"},
	}
	for _, tt := range tests {
		if got := DefaultConfig(tt.path).dsn(); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Already applied by testDB
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != len(migrationsSQL) {
		t.Errorf("schema_migrations rows = %d, want %d", n, len(migrationsSQL))
	}
}

// -----------------------------------------------------------------
// Almanac cache tests
// -----------------------------------------------------------------

func TestAlmanac_SaveAndLoad(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveAlmanac(ctx, 2024, 1, []byte("first")); err != nil {
		t.Fatalf("SaveAlmanac() error = %v", err)
	}
	if err := db.SaveAlmanac(ctx, 2024, 1, []byte("second")); err != nil {
		t.Fatalf("SaveAlmanac() overwrite error = %v", err)
	}

	got, err := db.LoadAlmanac(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("LoadAlmanac() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("LoadAlmanac() = %q, want %q", got, "second")
	}
}

func TestAlmanac_Miss(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveAlmanac(ctx, 2024, 1, []byte("v1")); err != nil {
		t.Fatalf("SaveAlmanac() error = %v", err)
	}

	tests := []struct {
		name          string
		year, version int
	}{
		{"unknown year", 2025, 1},
		{"other version", 2024, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.LoadAlmanac(ctx, tt.year, tt.version)
			if !IsNotFound(err) {
				t.Errorf("LoadAlmanac() error = %v, want ErrNotFound", err)
			}
			if !errors.Is(err, almanac.ErrNotCached) {
				t.Errorf("LoadAlmanac() error = %v, want almanac.ErrNotCached", err)
			}
		})
	}
}

func TestAlmanac_YearConstraint(t *testing.T) {
	db := testDB(t)

	if err := db.SaveAlmanac(context.Background(), 3001, 1, []byte("x")); err == nil {
		t.Error("SaveAlmanac(3001) error = nil, want CHECK constraint failure")
	}
}

func TestAlmanac_PurgeAndStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, row := range []struct{ year, version int }{
		{2023, 1}, {2024, 1}, {2025, 2}, {-500, 2},
	} {
		if err := db.SaveAlmanac(ctx, row.year, row.version, []byte("x")); err != nil {
			t.Fatalf("SaveAlmanac(%d, %d) error = %v", row.year, row.version, err)
		}
	}

	stats, err := db.AlmanacStats(ctx, 2)
	if err != nil {
		t.Fatalf("AlmanacStats() error = %v", err)
	}
	if stats.Years != 2 || stats.Stale != 2 {
		t.Errorf("AlmanacStats() = %+v, want 2 years and 2 stale", stats)
	}
	if stats.FirstYear == nil || *stats.FirstYear != -500 {
		t.Errorf("FirstYear = %v, want -500", stats.FirstYear)
	}
	if stats.LastYear == nil || *stats.LastYear != 2025 {
		t.Errorf("LastYear = %v, want 2025", stats.LastYear)
	}

	n, err := db.PurgeAlmanac(ctx, 2)
	if err != nil {
		t.Fatalf("PurgeAlmanac() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PurgeAlmanac() removed %d rows, want 2", n)
	}

	stats, err = db.AlmanacStats(ctx, 2)
	if err != nil {
		t.Fatalf("AlmanacStats() error = %v", err)
	}
	if stats.Stale != 0 {
		t.Errorf("Stale = %d after purge, want 0", stats.Stale)
	}
}

func TestAlmanacStats_Empty(t *testing.T) {
	db := testDB(t)

	stats, err := db.AlmanacStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("AlmanacStats() error = %v", err)
	}
	if stats.Years != 0 || stats.FirstYear != nil || stats.LastYear != nil {
		t.Errorf("AlmanacStats() = %+v, want empty", stats)
	}
}

func TestAlmanac_ServiceRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := almanac.NewService(db, slog.Default())

	first, err := svc.Year(ctx, 2020)
	if err != nil {
		t.Fatalf("Year() error = %v", err)
	}

	if _, err := db.LoadAlmanac(ctx, 2020, almanac.SchemaVersion); err != nil {
		t.Fatalf("almanac not cached: %v", err)
	}

	second, err := svc.Year(ctx, 2020)
	if err != nil {
		t.Fatalf("cached Year() error = %v", err)
	}
	if second.LeapMonth != first.LeapMonth || len(second.Months) != len(first.Months) {
		t.Errorf("cached almanac = %+v, want %+v", second, first)
	}
}

// -----------------------------------------------------------------
// Chart tests
// -----------------------------------------------------------------

func TestCreateChart(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	c := testChart(t)
	if err := db.CreateChart(ctx, c); err != nil {
		t.Fatalf("CreateChart() error = %v", err)
	}
	if c.ID == "" {
		t.Error("CreateChart() did not set ID")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreateChart() did not set CreatedAt")
	}

	got, err := db.GetChart(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetChart() error = %v", err)
	}
	if got.BaZi != "戊寅己未戊午己未" {
		t.Errorf("BaZi = %q, want %q", got.BaZi, "戊寅己未戊午己未")
	}
	if got.Birth != c.Birth {
		t.Errorf("Birth = %v, want %v", got.Birth, c.Birth)
	}
	if got.Label == nil || *got.Label != "test" {
		t.Errorf("Label = %v, want %q", got.Label, "test")
	}
	if got.Chart.LuckStems != c.Chart.LuckStems || got.Chart.Onset != c.Chart.Onset {
		t.Errorf("Chart = %+v, want %+v", got.Chart, c.Chart)
	}
	if !got.Male {
		t.Error("Male = false, want true")
	}
}

func TestCreateChart_NegativeYear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	birth := calendar.CivilTime{Year: -500, Month: 3, Day: 1, Hour: 6}
	chart, err := calendar.Fate(false, birth.Year, birth.Month, birth.Day, birth.Hour, 0, 0)
	if err != nil {
		t.Fatalf("compute chart: %v", err)
	}

	c := &SavedChart{Birth: birth, BaZi: chart.BaZi(), Chart: chart}
	if err := db.CreateChart(ctx, c); err != nil {
		t.Fatalf("CreateChart() error = %v", err)
	}

	got, err := db.GetChart(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetChart() error = %v", err)
	}
	if got.Birth != birth {
		t.Errorf("Birth = %v, want %v", got.Birth, birth)
	}
	if got.Label != nil {
		t.Errorf("Label = %q, want nil", *got.Label)
	}
}

func TestCreateChart_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	c := testChart(t)
	if err := db.CreateChart(ctx, c); err != nil {
		t.Fatalf("first CreateChart() error = %v", err)
	}

	dup := testChart(t)
	dup.ID = c.ID
	err := db.CreateChart(ctx, dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateChart() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestCreateChart_InvalidID(t *testing.T) {
	db := testDB(t)

	c := testChart(t)
	c.ID = "not-a-uuid"
	if err := db.CreateChart(context.Background(), c); err == nil {
		t.Error("CreateChart() error = nil, want invalid id error")
	}
}

func TestGetChart_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetChart(context.Background(), "6f1c1c0e-5a43-4a4e-9a53-3f8f3f0b6c11")
	if err != ErrNotFound {
		t.Errorf("GetChart() error = %v, want ErrNotFound", err)
	}
}

func TestListAndDeleteCharts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		c := testChart(t)
		if err := db.CreateChart(ctx, c); err != nil {
			t.Fatalf("CreateChart() error = %v", err)
		}
		ids = append(ids, c.ID)
	}

	charts, err := db.ListCharts(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListCharts() error = %v", err)
	}
	if len(charts) != 2 {
		t.Errorf("ListCharts(limit 2) returned %d charts", len(charts))
	}

	if err := db.DeleteChart(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteChart() error = %v", err)
	}
	if err := db.DeleteChart(ctx, ids[0]); err != ErrNotFound {
		t.Errorf("second DeleteChart() error = %v, want ErrNotFound", err)
	}

	charts, err = db.ListCharts(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListCharts() error = %v", err)
	}
	if len(charts) != 2 {
		t.Errorf("ListCharts() after delete returned %d charts, want 2", len(charts))
	}
}

func TestParseCivilTime(t *testing.T) {
	tests := []calendar.CivilTime{
		{Year: 2024, Month: 2, Day: 10, Hour: 23, Minute: 30, Second: 5},
		{Year: -5, Month: 12, Day: 31},
		{Year: 0, Month: 1, Day: 1, Hour: 12},
	}
	for _, want := range tests {
		got, err := parseCivilTime(want.String())
		if err != nil {
			t.Fatalf("parseCivilTime(%q) error = %v", want.String(), err)
		}
		if got != want {
			t.Errorf("parseCivilTime(%q) = %v, want %v", want.String(), got, want)
		}
	}
}
