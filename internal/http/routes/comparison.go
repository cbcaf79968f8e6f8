package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/jobs"
	"github.com/echoesai/echoes/internal/store"
)

type comparisonRunRequest struct {
	Models       []string `json:"models"`
	TestCaseFile string   `json:"test_case_file,omitempty"`
}

// handleComparisonRun registers a pending comparison and hands the
// actual evaluation to the worker; multi-model runs take minutes, far
// beyond the request timeout.
func (s *Server) handleComparisonRun(w http.ResponseWriter, r *http.Request) {
	var req comparisonRunRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Models) == 0 {
		s.respondError(w, http.StatusBadRequest, "Validation error", "models must not be empty")
		return
	}
	for _, m := range req.Models {
		if !agent.SupportedModel(m) {
			s.respondError(w, http.StatusBadRequest, "Validation error",
				"model "+m+" is not supported")
			return
		}
	}
	if s.Jobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Comparison unavailable",
			"job queue is not configured")
		return
	}

	id := uuid.NewString()
	if err := s.Store.CreateComparison(r.Context(), id, req.Models); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Comparison failed", err.Error())
		return
	}

	payload, _ := json.Marshal(jobs.ComparisonRunPayload{
		ComparisonID: id,
		Models:       req.Models,
		TestCaseFile: req.TestCaseFile,
	})
	task := asynq.NewTask(jobs.TaskComparisonRun, payload)
	if _, err := s.Jobs.Enqueue(task,
		asynq.Queue("comparisons"),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	); err != nil {
		s.Log.Error().Err(err).Str("comparison_id", id).Msg("enqueue comparison failed")
		if ferr := s.Store.FailComparison(r.Context(), id, "enqueue failed"); ferr != nil {
			s.Log.Error().Err(ferr).Msg("mark comparison failed")
		}
		s.respondError(w, http.StatusInternalServerError, "Comparison failed", err.Error())
		return
	}

	s.respond(w, http.StatusAccepted, map[string]any{
		"comparison_id": id,
		"status":        store.ComparisonPending,
		"models":        req.Models,
	})
}

func (s *Server) handleComparisonList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.respondError(w, http.StatusBadRequest, "Validation error", "limit must be 1-500")
			return
		}
		limit = n
	}

	comparisons, err := s.Store.ListComparisons(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to list comparisons", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"total":       len(comparisons),
		"comparisons": comparisons,
	})
}

func (s *Server) handleComparisonDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "comparisonID")

	rec, err := s.Store.GetComparison(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Not found", "comparison "+id+" not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve comparison", err.Error())
		return
	}
	s.respond(w, http.StatusOK, rec)
}
