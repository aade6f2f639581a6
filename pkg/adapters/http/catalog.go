package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/progress"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const dashboardSubtitle = "Explore cultural norms and social etiquette to travel with confidence and respect."

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if d, err := Document(); err == nil && d.Info != nil {
		apiVersion = d.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "roomread-http",
		"version":     strings.TrimSpace(s.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(rawDocument)
}

type dashboardResponse struct {
	Greeting  string            `json:"greeting"`
	Subtitle  string            `json:"subtitle"`
	Stats     catalog.Stats     `json:"stats"`
	Countries []catalog.Country `json:"countries"`
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboardResponse{
		Greeting:  catalog.Greeting(s.displayName(r)),
		Subtitle:  dashboardSubtitle,
		Stats:     catalog.DashboardStats(),
		Countries: catalog.Countries(),
	})
}

func (s *Server) listCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"countries": catalog.Countries()})
}

type countryResponse struct {
	Country    catalog.Country         `json:"country"`
	Categories []catalog.CategoryEntry `json:"categories"`
	Completed  []string                `json:"completed"`
}

func (s *Server) getCountry(w http.ResponseWriter, r *http.Request) {
	country, err := catalog.ResolveCountry(chi.URLParam(r, "country"))
	if err != nil {
		s.fail(w, r, err, "Country not found")
		return
	}

	var token string
	if err := runtime.BindQueryParameter("form", true, false, progress.QueryParam, r.URL.Query(), &token); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid completed parameter")
		return
	}

	writeJSON(w, http.StatusOK, countryResponse{
		Country:    country,
		Categories: catalog.CategoryListing(country.Slug, token),
		Completed:  progress.Decode(token).Slice(),
	})
}

type tiersResponse struct {
	Country  catalog.Country     `json:"country"`
	Category catalog.Category    `json:"category"`
	Tiers    []catalog.TierEntry `json:"tiers"`
}

func (s *Server) listLessonTiers(w http.ResponseWriter, r *http.Request) {
	country, err := catalog.ResolveCountry(chi.URLParam(r, "country"))
	if err != nil {
		s.fail(w, r, err, "Country not found")
		return
	}
	category, err := catalog.ResolveCategory(chi.URLParam(r, "category"))
	if err != nil {
		s.fail(w, r, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, tiersResponse{
		Country:  country,
		Category: category,
		Tiers:    catalog.TierListing(country.Slug, category.Slug),
	})
}

func (s *Server) getQuestions(w http.ResponseWriter, r *http.Request) {
	key := domain.ContentKey{
		Country:  chi.URLParam(r, "country"),
		Category: chi.URLParam(r, "category"),
		Mode:     domain.ModeQuiz,
	}
	content, err := s.Content.Find(r.Context(), key)
	if err != nil {
		s.fail(w, r, err, questionsNotFound(err))
		return
	}
	if content.IsEmpty() {
		writeError(w, http.StatusNotFound, "No questions found for this category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": content.Questions})
}

func questionsNotFound(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownCategory):
		return "Category not found"
	case errors.Is(err, domain.ErrUnknownCountry):
		return "Country data not found"
	default:
		return "No questions found for this category"
	}
}

func (s *Server) getLesson(w http.ResponseWriter, r *http.Request) {
	key := domain.ContentKey{
		Country:  chi.URLParam(r, "country"),
		Category: chi.URLParam(r, "category"),
		Mode:     domain.ModeLesson,
		Tier:     chi.URLParam(r, "tier"),
	}
	content, err := s.Content.Find(r.Context(), key)
	if err != nil {
		msg := "Lesson not found"
		if errors.Is(err, domain.ErrLessonLocked) {
			msg = "Lesson coming soon"
		}
		s.fail(w, r, err, msg)
		return
	}
	if content.Lesson == nil || content.IsEmpty() {
		writeError(w, http.StatusNotFound, "Lesson not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lesson": content.Lesson})
}
