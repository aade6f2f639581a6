package http

import (
	"encoding/json"
	"net/http"

	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/go-chi/chi/v5"
)

type startRequest struct {
	Country   string `json:"country"`
	Category  string `json:"category"`
	Mode      string `json:"mode"`
	Tier      string `json:"tier"`
	Completed string `json:"completed"`
}

type selectRequest struct {
	Option *int `json:"option"`
}

type sessionResponse struct {
	runtime.View
	Outcome *runtime.Outcome `json:"outcome,omitempty"`
}

func (s *Server) respondState(w http.ResponseWriter, status int, state *domain.RunnerState, outcome *runtime.Outcome) {
	writeJSON(w, status, sessionResponse{
		View:    s.Sessions.Engine().View(state),
		Outcome: outcome,
	})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.Logger.WarnContext(r.Context(), "start session: invalid body", "err", err)
		return
	}
	if body.Country == "" || body.Category == "" {
		writeError(w, http.StatusBadRequest, "country and category are required")
		return
	}
	mode, err := domain.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := domain.ContentKey{
		Country:  body.Country,
		Category: body.Category,
		Mode:     mode,
		Tier:     body.Tier,
	}
	state, err := s.Sessions.StartAndWait(r.Context(), "", key, body.Completed)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.respondState(w, http.StatusCreated, state, nil)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Session not found")
		return
	}
	s.respondState(w, http.StatusOK, state, nil)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectOption(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Option == nil {
		writeError(w, http.StatusBadRequest, "option is required")
		return
	}
	state, outcome, err := s.Sessions.Select(r.Context(), chi.URLParam(r, "id"), *body.Option)
	if err != nil {
		s.fail(w, r, err, "Session not found")
		return
	}
	s.respondState(w, http.StatusOK, state, &outcome)
}

func (s *Server) advanceSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Session not found")
		return
	}
	s.respondState(w, http.StatusOK, state, nil)
}
