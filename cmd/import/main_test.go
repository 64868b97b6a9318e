package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunisolar-api/internal/database"
)

func TestImportCharts(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	const id = "6f1c1f9e-3b8a-4a55-9b0e-2f8c7d1e4a10"
	records := []ImportChart{
		{ID: id, Datetime: "1998-07-10 13:00:00", Sex: "male"},
		{Datetime: "1985-11-03T06:15", Sex: "f"},
		{ID: "not-a-uuid", Datetime: "1998-07-10 13:00:00", Sex: "male"},
		{Datetime: "1998-07-10", Sex: "other"},
		{Datetime: "yesterday", Sex: "male"},
	}

	stats, err := importCharts(ctx, db, records, logger)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Created: 2, Invalid: 3}, stats)

	c, err := db.GetChart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "戊寅己未戊午己未", c.BaZi)

	// Rerunning skips what is already there.
	stats, err = importCharts(ctx, db, records[:1], logger)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Skipped: 1}, stats)
}
