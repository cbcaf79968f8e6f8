package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Comparison run lifecycle states.
const (
	ComparisonPending   = "pending"
	ComparisonRunning   = "running"
	ComparisonCompleted = "completed"
	ComparisonFailed    = "failed"
)

// ComparisonRecord tracks a background model-comparison run. Result is
// the evaluator's JSON report, present only once completed.
type ComparisonRecord struct {
	ComparisonID string          `json:"comparison_id"`
	Models       []string        `json:"models"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// CreateComparison registers a pending run.
func (s *Store) CreateComparison(ctx context.Context, id string, models []string) error {
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("marshal models: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO comparisons
		(comparison_id, models, status, created_at) VALUES (?, ?, ?, ?)`,
		id, string(modelsJSON), ComparisonPending, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create comparison: %w", err)
	}
	return nil
}

// MarkComparisonRunning transitions a pending run to running.
func (s *Store) MarkComparisonRunning(ctx context.Context, id string) error {
	return s.setComparisonStatus(ctx, id, ComparisonRunning, nil, "")
}

// CompleteComparison stores the evaluator report and marks the run done.
func (s *Store) CompleteComparison(ctx context.Context, id string, result json.RawMessage) error {
	return s.setComparisonStatus(ctx, id, ComparisonCompleted, result, "")
}

// FailComparison records the failure reason.
func (s *Store) FailComparison(ctx context.Context, id string, reason string) error {
	return s.setComparisonStatus(ctx, id, ComparisonFailed, nil, reason)
}

func (s *Store) setComparisonStatus(ctx context.Context, id, status string, result json.RawMessage, reason string) error {
	var completedAt any
	if status == ComparisonCompleted || status == ComparisonFailed {
		completedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE comparisons
		SET status = ?, result = ?, error = ?, completed_at = ?
		WHERE comparison_id = ?`,
		status, nullableJSON(result), reason, completedAt, id)
	if err != nil {
		return fmt.Errorf("update comparison %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetComparison retrieves a run by ID.
func (s *Store) GetComparison(ctx context.Context, id string) (ComparisonRecord, error) {
	var (
		rec         ComparisonRecord
		modelsJSON  string
		result      sql.NullString
		errMsg      sql.NullString
		completedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `SELECT comparison_id, models, status,
		result, error, created_at, completed_at
		FROM comparisons WHERE comparison_id = ?`, id).Scan(
		&rec.ComparisonID, &modelsJSON, &rec.Status, &result, &errMsg,
		&rec.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ComparisonRecord{}, ErrNotFound
	}
	if err != nil {
		return ComparisonRecord{}, fmt.Errorf("get comparison: %w", err)
	}

	if err := json.Unmarshal([]byte(modelsJSON), &rec.Models); err != nil {
		return ComparisonRecord{}, fmt.Errorf("decode models: %w", err)
	}
	if result.Valid {
		rec.Result = json.RawMessage(result.String)
	}
	rec.Error = errMsg.String
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	return rec, nil
}

// ListComparisons returns the newest runs without their result payloads.
func (s *Store) ListComparisons(ctx context.Context, limit int) ([]ComparisonRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT comparison_id, models, status,
		error, created_at, completed_at
		FROM comparisons ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer rows.Close()

	var out []ComparisonRecord
	for rows.Next() {
		var (
			rec         ComparisonRecord
			modelsJSON  string
			errMsg      sql.NullString
			completedAt sql.NullTime
		)
		if err := rows.Scan(&rec.ComparisonID, &modelsJSON, &rec.Status,
			&errMsg, &rec.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		if err := json.Unmarshal([]byte(modelsJSON), &rec.Models); err != nil {
			return nil, fmt.Errorf("decode models: %w", err)
		}
		rec.Error = errMsg.String
		if completedAt.Valid {
			t := completedAt.Time
			rec.CompletedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
