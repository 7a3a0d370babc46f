package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireListing(r chi.Router, handler *adaptor.ListingHandler, log *zap.Logger) {
	// Public browsing
	r.Get("/api/services", handler.ListServices)
	r.Get("/api/services/{id}", handler.GetListing)
	r.Get("/api/services/stream", handler.StreamListings)
	r.Get("/api/services/{id}/stream", handler.StreamListing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/services - Offer a service
		r.Post("/api/services", handler.CreateListing)

		// POST /api/services/rate - Rate a service
		r.Post("/api/services/rate", handler.RateService)
	})
}
