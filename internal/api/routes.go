package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.identityMiddleware)

		r.Get("/users/me", s.handleMe)

		r.Route("/flow", func(r chi.Router) {
			r.Get("/", s.handleFlowState)
			r.Post("/answer", s.handleFlowAnswer)
			r.Post("/skip", s.handleFlowSkip)
			r.Post("/skip-all", s.handleFlowSkipAll)
			r.Post("/not-understood", s.handleFlowNotUnderstood)
			r.Post("/retry", s.handleFlowRetry)
			r.Get("/events", s.handleFlowEvents)
		})

		r.Get("/summary/weekly", s.handleWeeklySummary)
		r.Get("/summary/monthly", s.handleMonthlyReport)

		r.Get("/spheres/focus", s.handleGetFocusSpheres)
		r.Put("/spheres/focus", s.handleUpdateFocusSpheres)
		r.Get("/spheres/ratings", s.handleGetRatings)
		r.Post("/spheres/ratings", s.handleCreateRatings)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
	})

	return r
}
