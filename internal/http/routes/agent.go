package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/cache"
	"github.com/echoesai/echoes/internal/jobs"
	"github.com/echoesai/echoes/internal/store"
)

type agentQueryRequest struct {
	Query       string   `json:"query"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	UseCache    *bool    `json:"use_cache,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok", "openai_key": "configured"}
	ready := true

	if err := s.Store.Ping(); err != nil {
		checks["database"] = "error"
		ready = false
	}
	if !s.Cfg.HasOpenAI() {
		checks["openai_key"] = "missing"
		ready = false
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	s.respond(w, code, map[string]any{
		"status":    status,
		"version":   s.Version,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleAgentQuery(w http.ResponseWriter, r *http.Request) {
	var req agentQueryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "Validation error", "query must not be empty")
		return
	}

	model := req.Model
	if model == "" {
		model = s.Cfg.Agent.Model
	}
	if !agent.SupportedModel(model) {
		s.respondError(w, http.StatusBadRequest, "Validation error",
			"model "+model+" is not supported")
		return
	}
	temperature := s.Cfg.Agent.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	useCache := req.UseCache == nil || *req.UseCache

	key := cache.Fingerprint(req.Query, model, temperature)

	if useCache {
		if cached, ok := s.Cache.Get(key); ok {
			// A hit is a fresh execution from the caller's point of
			// view, so it gets its own id and timestamp.
			cached.ExecutionID = uuid.NewString()
			cached.Timestamp = s.now().UTC()
			cached.FromCache = true
			s.Log.Info().Str("model", model).Msg("cache hit")
			s.respond(w, http.StatusOK, cached)
			return
		}
	}

	runner, err := s.Runner(model, temperature)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Query execution failed", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Cfg.RequestTimeout)
	defer cancel()

	result, err := runner.Execute(ctx, req.Query)
	if err != nil {
		s.Log.Error().Err(err).Str("model", model).Msg("query execution failed")
		s.respondError(w, http.StatusInternalServerError, "Query execution failed", err.Error())
		return
	}

	if useCache {
		s.Cache.Put(key, *result)
	}
	s.saveExecution(ctx, result)
	s.maybeEnqueueCleanup(result.ExecutionID)

	s.respond(w, http.StatusOK, result)
}

func (s *Server) saveExecution(ctx context.Context, res *agent.Result) {
	trace, _ := json.Marshal(res.Trace)
	metrics, _ := json.Marshal(res.Metrics)

	rec := store.ExecutionRecord{
		ExecutionID:   res.ExecutionID,
		Query:         res.Query,
		Answer:        res.Answer,
		Model:         res.Metrics.Model,
		ExecutionTime: res.Metrics.ExecutionTimeSeconds,
		EstimatedCost: res.Metrics.EstimatedCostUSD,
		TotalTokens:   int64(res.Metrics.EstimatedTokens.Total),
		NumSteps:      res.Metrics.NumSteps,
		Timestamp:     res.Timestamp.UTC().Format(time.RFC3339),
		Trace:         trace,
		Metrics:       metrics,
	}
	if err := s.Store.SaveExecution(ctx, rec); err != nil {
		// History is best effort; the caller still gets the answer.
		s.Log.Error().Err(err).Str("execution_id", res.ExecutionID).Msg("save execution failed")
	}
}

// maybeEnqueueCleanup schedules a retention sweep roughly once per
// hundred executions, keyed off the random execution id.
func (s *Server) maybeEnqueueCleanup(executionID string) {
	if s.Jobs == nil || len(executionID) < 8 {
		return
	}
	n, err := strconv.ParseUint(executionID[:8], 16, 64)
	if err != nil || n%100 != 0 {
		return
	}

	payload, _ := json.Marshal(jobs.CleanupExecutionsPayload{RetentionDays: 30})
	task := asynq.NewTask(jobs.TaskCleanupExecutions, payload)
	if _, err := s.Jobs.Enqueue(task, asynq.Queue("maintenance"), asynq.MaxRetry(1)); err != nil {
		s.Log.Warn().Err(err).Msg("enqueue cleanup failed")
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, agent.Catalog())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.respondError(w, http.StatusBadRequest, "Validation error", "limit must be 1-500")
			return
		}
		limit = n
	}

	executions, err := s.Store.RecentExecutions(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve history", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"total":      len(executions),
		"executions": executions,
	})
}

func (s *Server) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "executionID")

	rec, err := s.Store.GetExecution(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Not found", "execution "+id+" not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve execution", err.Error())
		return
	}
	s.respond(w, http.StatusOK, rec)
}
