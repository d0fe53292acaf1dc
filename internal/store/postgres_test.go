package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO scan_runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE scan_runs SET`).
		WithArgs(pgxmock.AnyArg(), 480, 12, true, "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", 480, 12, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE scan_runs SET`).
		WithArgs(pgxmock.AnyArg(), 1, 0, false, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", 1, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertLocation(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	loc := testLocation("42")

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(loc.ID, loc.Slug, loc.Name, loc.CityState, loc.AddressLine,
			loc.ZipCode, loc.Latitude, loc.Longitude, loc.URL, loc.ImageURL,
			pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertLocation(context.Background(), loc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLocations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "slug", "name", "city_state", "address_line",
		"zip_code", "latitude", "longitude", "url", "image_url",
	}).
		AddRow("1", "1", "In-N-Out Burger", "Los Angeles, CA", "123 Main St",
			"90001", 34.0522, -118.2437, "https://x/1", "").
		AddRow("2", "2", "In-N-Out Burger", "Austin, TX", "1 Congress Ave",
			"78701", 30.2672, -97.7431, "https://x/2", "")

	mock.ExpectQuery(`SELECT id, slug, name`).WillReturnRows(rows)

	locs, err := s.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "1", locs[0].ID)
	assert.Equal(t, "Austin, TX", locs[1].CityState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLocations_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, slug, name`).WillReturnError(errors.New("boom"))

	_, err := s.ListLocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list locations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS scan_runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
