package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExecutionRecord is a persisted agent run. ReasoningTrace and Metrics
// are stored as the JSON the agent produced; the store does not
// interpret them beyond the flattened columns used for listing and
// analytics.
type ExecutionRecord struct {
	ExecutionID   string          `json:"execution_id"`
	Query         string          `json:"query"`
	Answer        string          `json:"answer"`
	Model         string          `json:"model"`
	ExecutionTime float64         `json:"execution_time_seconds"`
	EstimatedCost float64         `json:"estimated_cost_usd"`
	TotalTokens   int64           `json:"total_tokens"`
	NumSteps      int             `json:"num_steps"`
	Timestamp     string          `json:"timestamp"`
	Trace         json.RawMessage `json:"reasoning_trace"`
	Metrics       json.RawMessage `json:"metrics"`
}

// ExecutionSummary is the truncated listing row for history endpoints.
type ExecutionSummary struct {
	ExecutionID   string  `json:"execution_id"`
	Query         string  `json:"query"`
	Timestamp     string  `json:"timestamp"`
	Model         string  `json:"model"`
	ExecutionTime float64 `json:"execution_time_seconds"`
	EstimatedCost float64 `json:"estimated_cost_usd"`
	NumSteps      int     `json:"num_steps"`
}

// ExecutionStats aggregates the stored history for the metrics endpoint.
type ExecutionStats struct {
	TotalExecutions int64            `json:"total_executions"`
	TotalCostUSD    float64          `json:"total_cost_usd"`
	TotalTokens     int64            `json:"total_tokens"`
	ByModel         map[string]int64 `json:"by_model"`
	DatabaseBytes   int64            `json:"database_size_bytes"`
}

// SaveExecution inserts or replaces an execution record.
func (s *Store) SaveExecution(ctx context.Context, rec ExecutionRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO executions
		(execution_id, query, answer, model, execution_time_seconds,
		 estimated_cost_usd, total_tokens, num_steps, timestamp,
		 reasoning_trace, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ExecutionID, rec.Query, rec.Answer, rec.Model, rec.ExecutionTime,
		rec.EstimatedCost, rec.TotalTokens, rec.NumSteps, rec.Timestamp,
		string(rec.Trace), string(rec.Metrics))
	if err != nil {
		return fmt.Errorf("save execution: %w", err)
	}
	return nil
}

// GetExecution retrieves a full execution record by ID.
func (s *Store) GetExecution(ctx context.Context, id string) (ExecutionRecord, error) {
	var (
		rec            ExecutionRecord
		trace, metrics string
	)
	err := s.db.QueryRowContext(ctx, `SELECT execution_id, query, answer, model,
		execution_time_seconds, estimated_cost_usd, total_tokens, num_steps,
		timestamp, reasoning_trace, metrics
		FROM executions WHERE execution_id = ?`, id).Scan(
		&rec.ExecutionID, &rec.Query, &rec.Answer, &rec.Model,
		&rec.ExecutionTime, &rec.EstimatedCost, &rec.TotalTokens, &rec.NumSteps,
		&rec.Timestamp, &trace, &metrics)
	if errors.Is(err, sql.ErrNoRows) {
		return ExecutionRecord{}, ErrNotFound
	}
	if err != nil {
		return ExecutionRecord{}, fmt.Errorf("get execution: %w", err)
	}
	rec.Trace = json.RawMessage(trace)
	rec.Metrics = json.RawMessage(metrics)
	return rec, nil
}

// RecentExecutions lists the newest executions, long queries truncated.
func (s *Store) RecentExecutions(ctx context.Context, limit int) ([]ExecutionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT execution_id, query, timestamp,
		model, execution_time_seconds, estimated_cost_usd, num_steps
		FROM executions ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent executions: %w", err)
	}
	defer rows.Close()

	var out []ExecutionSummary
	for rows.Next() {
		var sum ExecutionSummary
		if err := rows.Scan(&sum.ExecutionID, &sum.Query, &sum.Timestamp,
			&sum.Model, &sum.ExecutionTime, &sum.EstimatedCost, &sum.NumSteps); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		if len(sum.Query) > 100 {
			sum.Query = sum.Query[:100]
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// CleanupExecutions deletes records older than the retention window and
// returns how many were removed.
func (s *Store) CleanupExecutions(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM executions WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup executions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearExecutions deletes the whole history.
func (s *Store) ClearExecutions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM executions`); err != nil {
		return fmt.Errorf("clear executions: %w", err)
	}
	return nil
}

// ExecutionStatistics aggregates totals and per-model counts.
func (s *Store) ExecutionStatistics(ctx context.Context) (ExecutionStats, error) {
	stats := ExecutionStats{ByModel: make(map[string]int64)}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(estimated_cost_usd), 0), COALESCE(SUM(total_tokens), 0)
		FROM executions`).Scan(&stats.TotalExecutions, &stats.TotalCostUSD, &stats.TotalTokens)
	if err != nil {
		return ExecutionStats{}, fmt.Errorf("execution stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT model, COUNT(*) FROM executions GROUP BY model`)
	if err != nil {
		return ExecutionStats{}, fmt.Errorf("execution stats by model: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var model string
		var n int64
		if err := rows.Scan(&model, &n); err != nil {
			return ExecutionStats{}, fmt.Errorf("scan model count: %w", err)
		}
		stats.ByModel[model] = n
	}
	if err := rows.Err(); err != nil {
		return ExecutionStats{}, err
	}

	stats.DatabaseBytes = s.SizeBytes()
	return stats, nil
}
