package routes

import (
	"encoding/json"
	"net/http"
)

// errorBody is the envelope every API error uses.
type errorBody struct {
	Error      string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("write response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, summary, detail string) {
	s.respond(w, status, errorBody{Error: summary, Detail: detail, StatusCode: status})
}

// decodeJSON reads a request body into v, capping it at 1MB.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
