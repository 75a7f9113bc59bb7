package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/outreach-backend/internal/auth"
	"github.com/unclebandit/outreach-backend/internal/controller"
	"github.com/unclebandit/outreach-backend/internal/handler"
)

// NewRouter wires middleware and routes into one http.Handler.
func NewRouter(verifier *auth.Verifier, outreach *controller.OutreachController, campaigns *handler.CampaignHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(verifier.Middleware)

		r.Post("/outreach", outreach.Generate)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", campaigns.ListCampaignsHandler)
			r.Get("/{id}", campaigns.GetCampaignHandler)
			r.Delete("/{id}", campaigns.DeleteCampaignHandler)
		})
	})

	return r
}
