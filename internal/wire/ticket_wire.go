package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/internal/data/repository"
	"sokoni/pkg/middleware"
)

func wireTicket(r chi.Router, handler *adaptor.TicketHandler, repo *repository.Repository, log *zap.Logger) {
	// POST /scan-ticket - Redemption devices only
	r.Group(func(r chi.Router) {
		r.Use(middleware.ScannerAuth(repo.Scanner, log))
		r.Post("/scan-ticket", handler.ScanTicket)
	})

	// GET /api/events/{id}/ticket-stats - Live availability (SSE, public)
	r.Get("/api/events/{id}/ticket-stats", handler.StreamStats)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity())

		// GET /api/user/tickets - The caller's wallet
		r.Get("/api/user/tickets", handler.UserTickets)

		// GET /api/tickets/{id}/qr.png - Rendered admission code
		r.Get("/api/tickets/{id}/qr.png", handler.QRImage)

		// POST /api/events/{id}/ticket-types - Configure admission classes
		r.Post("/api/events/{id}/ticket-types", handler.CreateTicketType)

		// POST /api/scanners - Enroll a redemption device
		r.Post("/api/scanners", handler.RegisterScanner)
	})
}
