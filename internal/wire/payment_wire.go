package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wirePayment(r chi.Router, handler *adaptor.PaymentHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/pay - Start a mobile-money checkout
		r.Post("/api/pay", handler.Pay)

		// GET /api/payment-status/{id} - Poll the aggregator
		r.Get("/api/payment-status/{id}", handler.Status)

		// POST /api/payments/{id}/confirm - Deep-link return from checkout
		r.Post("/api/payments/{id}/confirm", handler.Confirm)
	})
}
