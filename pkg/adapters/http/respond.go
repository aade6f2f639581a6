package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/roomread/pkg/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrContentNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and masked.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		if notFound != "" {
			msg = notFound
		}
	case http.StatusInternalServerError:
		s.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		msg = "Internal server error"
	}
	writeError(w, status, msg)
}
