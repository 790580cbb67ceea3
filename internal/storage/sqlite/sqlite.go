// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/grouprequest/internal/models"
	"github.com/mmynk/grouprequest/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create the ledger directory on first use
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pure Go driver, no CGO
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// run_results rows reference their run
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun persists a run and its results in one transaction.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().Unix()
	}
	if run.FinishedAt == 0 {
		run.FinishedAt = run.StartedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, amount, message, source, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.Amount.StringFixed(2), run.Message, run.Source, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, position, first_name, last_name, handle, outcome, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range run.Results {
		errText := sql.NullString{String: res.Error, Valid: res.Error != ""}
		_, err = stmt.ExecContext(ctx,
			run.ID, res.Position, res.Recipient.FirstName, res.Recipient.LastName,
			res.Recipient.Handle, string(res.Outcome), errText,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID, including all results.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	run := &models.Run{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, amount, message, source, started_at, finished_at FROM runs WHERE id = ?",
		runID,
	).Scan(&run.ID, &amount, &run.Message, &run.Source, &run.StartedAt, &run.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run amount: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, first_name, last_name, handle, outcome, error
		 FROM run_results WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.RunResult
		var outcome string
		var errText sql.NullString
		if err := rows.Scan(&res.Position, &res.Recipient.FirstName, &res.Recipient.LastName,
			&res.Recipient.Handle, &outcome, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Outcome = models.Outcome(outcome)
		if errText.Valid {
			res.Error = errText.String
		}
		run.Results = append(run.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return run, nil
}
