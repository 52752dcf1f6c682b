package api

import (
	"net/http"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository"
	"github.com/ivmel/reflecta/internal/services"
	"github.com/ivmel/reflecta/internal/sphere"
)

// Server carries the wired services and the handlers' shared state.
type Server struct {
	Sessions   *services.SessionService
	Progress   services.ProgressService
	Settings   services.SettingsService
	Backend    backend.ClientInterface
	Identities repository.IdentityRepository
	BotToken   string
}

func (s *Server) handleGetFocusSpheres(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	keys, err := s.Backend.GetFocusSpheres(r.Context(), id.Auth())
	if err != nil {
		if errors.IsNotFound(err) {
			writeJSON(w, r, http.StatusOK, map[string]any{"spheres": []string{}})
			return
		}
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"spheres": keys})
}

type focusSpheresRequest struct {
	Spheres []string `json:"spheres"`
}

// handleUpdateFocusSpheres replaces the caller's focus spheres and drops
// the current flow session, since the active question filter changed.
func (s *Server) handleUpdateFocusSpheres(w http.ResponseWriter, r *http.Request) {
	var req focusSpheresRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	focus, err := sphere.NewFocusSet(req.Spheres)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if focus.Len() == 0 {
		handleError(w, r, errors.NewValidationError("spheres", "at least one sphere is required"))
		return
	}

	id := identityFromContext(r.Context())
	if err := s.Backend.UpdateFocusSpheres(r.Context(), id.Auth(), focus.Keys()); err != nil {
		handleError(w, r, err)
		return
	}
	s.Sessions.Invalidate(id)
	writeJSON(w, r, http.StatusOK, map[string]any{"spheres": focus.Keys()})
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	summary, err := s.Progress.Weekly(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	report, err := s.Progress.Monthly(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleGetRatings(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	ratings, err := s.Progress.Ratings(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []models.SphereRating{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ratings": ratings})
}

type ratingsRequest struct {
	Ratings map[string]int `json:"ratings"`
}

func (s *Server) handleCreateRatings(w http.ResponseWriter, r *http.Request) {
	var req ratingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if len(req.Ratings) == 0 {
		handleError(w, r, errors.NewValidationError("ratings", "cannot be empty"))
		return
	}
	for sphere, rating := range req.Ratings {
		if rating < 1 || rating > 10 {
			handleError(w, r, errors.NewValidationError(sphere, "rating must be between 1 and 10"))
			return
		}
	}

	id := identityFromContext(r.Context())
	if err := s.Progress.SaveRatings(r.Context(), id, req.Ratings); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	settings, err := s.Settings.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update models.SettingsUpdate
	if err := decodeJSON(r, &update); err != nil {
		handleError(w, r, err)
		return
	}

	id := identityFromContext(r.Context())
	settings, err := s.Settings.Update(r.Context(), id, update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	resp := map[string]any{
		"key":         id.Key(),
		"telegram_id": id.TelegramID,
		"guest_id":    id.GuestID,
		"is_guest":    id.IsGuest(),
	}
	// The backend profile is a nice-to-have; identity resolution already
	// succeeded, so a failed lookup does not fail the request.
	if user, err := s.Backend.GetCurrentUser(r.Context(), id.Auth()); err == nil {
		resp["profile"] = user
	}
	writeJSON(w, r, http.StatusOK, resp)
}
