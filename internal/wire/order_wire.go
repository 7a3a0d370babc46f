package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/pkg/middleware"
)

func wireOrder(r chi.Router, handler *adaptor.OrderHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// POST /api/orders - Place a food order
		r.Post("/api/orders", handler.CreateOrder)
		r.Get("/api/orders/{id}", handler.GetOrder)

		// Cook actions
		r.Put("/api/orders/{id}/confirm-payment", handler.ConfirmPayment)
		r.Put("/api/orders/{id}/status", handler.UpdateStatus)

		// Customer cancellation, pending orders only
		r.Put("/api/orders/{id}/cancel", handler.CancelOrder)

		// Live order lists (SSE)
		r.Get("/api/user/orders/stream", handler.StreamCustomerOrders)
		r.Get("/api/cook/orders/stream", handler.StreamCookOrders)
	})
}
