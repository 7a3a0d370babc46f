package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireChat(r chi.Router, handler *adaptor.ChatHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/chat/rooms - Resolve or create the pair's room
		r.Post("/api/chat/rooms", handler.OpenRoom)

		// POST /api/chat/messages - Send a message
		r.Post("/api/chat/messages", handler.SendMessage)

		// PUT /api/chat/rooms/{id}/read - Clear the caller's unread state
		r.Put("/api/chat/rooms/{id}/read", handler.MarkRead)

		// Live views (SSE)
		r.Get("/api/chat/rooms/stream", handler.StreamRooms)
		r.Get("/api/chat/rooms/{id}/messages/stream", handler.StreamMessages)
	})
}
