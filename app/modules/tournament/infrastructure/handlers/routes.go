package tournamenthandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers the API on r. uploadAuth guards the write endpoint.
func (h *TournamentHandlers) Routes(r chi.Router, uploadAuth func(http.Handler) http.Handler) {
	r.Get("/healthz", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ranking", h.HandleRanking)
		r.Get("/tournaments", h.HandleListTournaments)
		r.Get("/tournaments/{id}", h.HandleGetTournament)

		r.Group(func(r chi.Router) {
			r.Use(uploadAuth)
			r.Post("/tournaments", h.HandleUpload)
		})
	})
}
