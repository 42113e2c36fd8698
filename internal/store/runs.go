package store

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"crosscheck/internal/model"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// CreateRun inserts a new run in status "running".
func (s *Store) CreateRun(run model.Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, filing_id, taxonomy, status, started_at)
		VALUES (?, ?, ?, 'running', ?)
	`, run.ID, run.FilingID, run.Taxonomy, run.StartedAt)
	if err != nil {
		return errors.Wrap(err, "create run")
	}
	return nil
}

// FinishRun marks a run done or failed.
func (s *Store) FinishRun(id, status, errMsg string, completedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?
	`, status, errMsg, completedAt, id)
	if err != nil {
		return errors.Wrap(err, "finish run")
	}
	return nil
}

// GetRun loads one run by id.
func (s *Store) GetRun(id string) (model.Run, error) {
	row := s.db.QueryRow(`
		SELECT id, filing_id, taxonomy, status, error, started_at, completed_at
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, filing_id, taxonomy, status, error, started_at, completed_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (model.Run, error) {
	var run model.Run
	var completed sql.NullTime
	err := row.Scan(&run.ID, &run.FilingID, &run.Taxonomy, &run.Status, &run.Error, &run.StartedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, ErrRunNotFound
	}
	if err != nil {
		return model.Run{}, errors.Wrap(err, "scan run")
	}
	if completed.Valid {
		run.CompletedAt = completed.Time
	}
	return run, nil
}
