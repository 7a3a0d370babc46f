package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/adaptor"
	"sokoni/internal/data/repository"
	"sokoni/internal/payments"
	"sokoni/internal/usecase"
	"sokoni/pkg/middleware"
	"sokoni/pkg/utils"
)

// App holds the wired application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, provider payments.Provider, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, provider, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireListing(r, handler.Listing, logger)
	wireBooking(r, handler.Booking, logger)
	wireOrder(r, handler.Order, logger)
	wirePayment(r, handler.Payment, logger)
	wireTicket(r, handler.Ticket, repo, logger)
	wireChat(r, handler.Chat, logger)
	wireEvent(r, handler.Event, logger)
	wireAnnouncement(r, handler.Announcement, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
