package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireEvent(r chi.Router, handler *adaptor.EventHandler, log *zap.Logger) {
	// Public event pages
	r.Get("/api/events/{id}", handler.GetEvent)
	r.Get("/api/events/{id}/stream", handler.StreamEvent)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/events - Host an event
		r.Post("/api/events", handler.CreateEvent)

		// POST /api/events/{id}/comments - Comment on an event
		r.Post("/api/events/{id}/comments", handler.AddComment)
	})
}
