package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireBooking(r chi.Router, handler *adaptor.BookingHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/bookings - Book a service
		r.Post("/api/bookings", handler.CreateBooking)

		// GET /api/bookings/{id} - Booking details
		r.Get("/api/bookings/{id}", handler.GetBooking)

		// Provider decisions on a pending booking
		r.Put("/api/bookings/{id}/accept", handler.AcceptBooking)
		r.Put("/api/bookings/{id}/reject", handler.RejectBooking)
		r.Put("/api/bookings/{id}/complete", handler.CompleteBooking)

		// Live booking lists (SSE)
		r.Get("/api/user/bookings/stream", handler.StreamCustomerBookings)
		r.Get("/api/provider/bookings/stream", handler.StreamProviderBookings)
	})
}
