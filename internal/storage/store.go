// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/grouprequest/internal/models"
)

// Store defines the interface for the run ledger.
// The ledger is an audit trail only; nothing reads it back to decide whom to
// request money from.
type Store interface {
	// CreateRun persists a finished run and all of its results.
	// The run.ID field will be populated by the store if empty.
	CreateRun(ctx context.Context, run *models.Run) error

	// GetRun retrieves a run by its ID, results in input order.
	// Returns nil and an error if the run is not found.
	GetRun(ctx context.Context, runID string) (*models.Run, error)

	// Close releases any resources held by the store.
	Close() error
}
