package database

// migrationsSQL holds the schema, keyed by version. Versions are applied
// in order and never edited once released; add a new version instead.
var migrationsSQL = map[int]string{
	1: migrationV1AlmanacCache,
	2: migrationV2Charts,
}

// migrationV1AlmanacCache stores computed almanac years.
//
// payload is a msgpack-encoded almanac.YearAlmanac. Rows are keyed by the
// almanac schema version as well as the year, so a release that changes
// the computation simply misses the old rows; PurgeAlmanac drops them.
const migrationV1AlmanacCache = `
CREATE TABLE IF NOT EXISTS almanac_years (
    year INTEGER NOT NULL CHECK (year BETWEEN -1000 AND 3000),
    version INTEGER NOT NULL,
    payload BLOB NOT NULL,
    computed_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (year, version)
);

CREATE INDEX IF NOT EXISTS idx_almanac_years_version
    ON almanac_years(version);
`

// migrationV2Charts stores four-pillars charts saved through the API.
//
// The chart itself is kept as JSON so it reads back exactly as it was
// computed; birth and bazi are columns for lookups.
const migrationV2Charts = `
CREATE TABLE IF NOT EXISTS charts (
    -- UUID v4, generated by the application
    id TEXT PRIMARY KEY,

    label TEXT,
    male INTEGER NOT NULL CHECK (male IN (0, 1)),

    -- Civil birth time on the UTC+8 clock: "YYYY-MM-DD HH:MM:SS"
    birth TEXT NOT NULL,

    -- Eight characters of the four pillars, e.g. 戊寅己未戊午己未
    bazi TEXT NOT NULL,

    chart_json TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_charts_bazi
    ON charts(bazi);

CREATE INDEX IF NOT EXISTS idx_charts_created
    ON charts(created_at);
`
