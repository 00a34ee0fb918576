package server

import (
	"encoding/json"
	"net/http"

	"snappy/errors"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps a domain error onto its HTTP status. Expected rejections
// (blocked, throttled, not found) are normal traffic, not server faults.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"msg": err.Error()})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid JSON body"})
		return false
	}
	return true
}

func parseMessageID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errors.ErrMissingMessageID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidMessageID
	}
	return id, nil
}
