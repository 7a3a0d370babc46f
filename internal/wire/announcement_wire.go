package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireAnnouncement(r chi.Router, handler *adaptor.AnnouncementHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/announcements - Publish to the whole community
		r.Post("/api/announcements", handler.CreateAnnouncement)

		// PUT /api/announcements/{id}/read - Mark read for the caller
		r.Put("/api/announcements/{id}/read", handler.MarkRead)

		// GET /api/announcements/stream - Live feed (SSE)
		r.Get("/api/announcements/stream", handler.StreamAnnouncements)
	})
}
