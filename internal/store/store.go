package store

import (
	"context"
	"time"

	"github.com/sells-group/locations-cli/internal/model"
)

// ScanRun records one scan invocation for bookkeeping.
type ScanRun struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	IDsProbed    int        `json:"ids_probed"`
	Found        int        `json:"found"`
	StoppedEarly bool       `json:"stopped_early"`
}

// Store defines the persistence interface for discovered locations.
type Store interface {
	// Runs
	CreateRun(ctx context.Context) (*ScanRun, error)
	CompleteRun(ctx context.Context, runID string, idsProbed, found int, stoppedEarly bool) error

	// Locations
	UpsertLocation(ctx context.Context, loc model.Location) error
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
