package routes

import (
	"net/http"
	"strconv"

	"github.com/echoesai/echoes/internal/store"
)

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.SongFilter{
		Mood:  q.Get("mood"),
		Album: q.Get("album"),
		Limit: 10,
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Validation error", "year must be an integer")
			return
		}
		filter.Year = year
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.respondError(w, http.StatusBadRequest, "Validation error", "limit must be 1-100")
			return
		}
		filter.Limit = n
	}

	songs, err := s.Store.ListSongs(r.Context(), filter)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve songs", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"total": len(songs),
		"songs": songs,
	})
}

func (s *Server) handleSongSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "Validation error", "q must not be empty")
		return
	}

	songs, err := s.Store.SearchSongs(r.Context(), query)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"query": query,
		"total": len(songs),
		"songs": songs,
	})
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.Store.MoodCounts(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve moods", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"moods": moods})
}
