package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/locations-cli/internal/db"
	"github.com/sells-group/locations-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id            TEXT PRIMARY KEY,
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ,
	ids_probed    INTEGER NOT NULL DEFAULT 0,
	found         INTEGER NOT NULL DEFAULT 0,
	stopped_early BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS locations (
	id           TEXT PRIMARY KEY,
	slug         TEXT NOT NULL,
	name         TEXT NOT NULL,
	city_state   TEXT NOT NULL,
	address_line TEXT NOT NULL,
	zip_code     TEXT NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	url          TEXT NOT NULL,
	image_url    TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_zip ON locations(zip_code);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*ScanRun, error) {
	run := &ScanRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scan_runs (id, started_at) VALUES ($1, $2)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, idsProbed, found int, stoppedEarly bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE scan_runs SET finished_at = $1, ids_probed = $2, found = $3, stopped_early = $4 WHERE id = $5`,
		time.Now().UTC(), idsProbed, found, stoppedEarly, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) UpsertLocation(ctx context.Context, loc model.Location) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO locations (id, slug, name, city_state, address_line, zip_code, latitude, longitude, url, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			name = EXCLUDED.name,
			city_state = EXCLUDED.city_state,
			address_line = EXCLUDED.address_line,
			zip_code = EXCLUDED.zip_code,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			url = EXCLUDED.url,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at`,
		loc.ID, loc.Slug, loc.Name, loc.CityState, loc.AddressLine, loc.ZipCode,
		loc.Latitude, loc.Longitude, loc.URL, loc.ImageURL, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert location %s", loc.ID)
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, name, city_state, address_line, zip_code, latitude, longitude, url, image_url
		FROM locations
		ORDER BY id::integer`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list locations")
	}
	defer rows.Close()

	var locs []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(
			&loc.ID, &loc.Slug, &loc.Name, &loc.CityState, &loc.AddressLine,
			&loc.ZipCode, &loc.Latitude, &loc.Longitude, &loc.URL, &loc.ImageURL,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan location")
		}
		locs = append(locs, loc)
	}
	return locs, eris.Wrap(rows.Err(), "postgres: iterate locations")
}
