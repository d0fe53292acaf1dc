package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/locations-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id            TEXT PRIMARY KEY,
	started_at    DATETIME NOT NULL,
	finished_at   DATETIME,
	ids_probed    INTEGER NOT NULL DEFAULT 0,
	found         INTEGER NOT NULL DEFAULT 0,
	stopped_early INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS locations (
	id           TEXT PRIMARY KEY,
	slug         TEXT NOT NULL,
	name         TEXT NOT NULL,
	city_state   TEXT NOT NULL,
	address_line TEXT NOT NULL,
	zip_code     TEXT NOT NULL,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	url          TEXT NOT NULL,
	image_url    TEXT NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_zip ON locations(zip_code);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*ScanRun, error) {
	run := &ScanRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, idsProbed, found int, stoppedEarly bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs SET finished_at = ?, ids_probed = ?, found = ?, stopped_early = ? WHERE id = ?`,
		time.Now().UTC(), idsProbed, found, stoppedEarly, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteStore) UpsertLocation(ctx context.Context, loc model.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, slug, name, city_state, address_line, zip_code, latitude, longitude, url, image_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			city_state = excluded.city_state,
			address_line = excluded.address_line,
			zip_code = excluded.zip_code,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			url = excluded.url,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at`,
		loc.ID, loc.Slug, loc.Name, loc.CityState, loc.AddressLine, loc.ZipCode,
		loc.Latitude, loc.Longitude, loc.URL, loc.ImageURL, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert location %s", loc.ID)
}

func (s *SQLiteStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, name, city_state, address_line, zip_code, latitude, longitude, url, image_url
		FROM locations
		ORDER BY CAST(id AS INTEGER)`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list locations")
	}
	defer rows.Close()

	var locs []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(
			&loc.ID, &loc.Slug, &loc.Name, &loc.CityState, &loc.AddressLine,
			&loc.ZipCode, &loc.Latitude, &loc.Longitude, &loc.URL, &loc.ImageURL,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan location")
		}
		locs = append(locs, loc)
	}
	return locs, eris.Wrap(rows.Err(), "sqlite: iterate locations")
}
