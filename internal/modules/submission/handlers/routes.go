package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/salary-predictor/pkg/embedded"
)

// RegisterRoutes registers the form page, static assets and the prediction API
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleIndex)
	r.Post("/predict", h.HandlePredictForm)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(embedded.Static()))))

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", h.HandlePredict)
		r.Post("/encode", h.HandleEncode)
		r.Get("/schema", h.HandleGetSchema)
		r.Get("/charts/roles", h.HandleGetRoles)
	})
}
