package routes

import (
	"math"
	"net/http"
)

func (s *Server) handleCacheMetrics(w http.ResponseWriter, r *http.Request) {
	stats := s.Cache.Stats()

	total := stats.Hits + stats.Misses
	hitRate := 0.0
	if total > 0 {
		hitRate = math.Round(float64(stats.Hits)/float64(total)*100*100) / 100
	}

	s.respond(w, http.StatusOK, map[string]any{
		"size":             stats.Size,
		"max_size":         s.Cfg.Cache.MaxEntries,
		"hits":             stats.Hits,
		"misses":           stats.Misses,
		"total_requests":   total,
		"hit_rate_percent": hitRate,
		"ttl_seconds":      int(s.Cfg.Cache.TTL.Seconds()),
	})
}

func (s *Server) handleStorageMetrics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Store.ExecutionStatistics(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve storage metrics", err.Error())
		return
	}
	s.respond(w, http.StatusOK, stats)
}
