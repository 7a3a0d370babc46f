package adaptor

import (
	"go.uber.org/zap"

	"sokoni/internal/usecase"
)

// Handler bundles all HTTP handlers for wiring.
type Handler struct {
	Booking      *BookingHandler
	Listing      *ListingHandler
	Order        *OrderHandler
	Payment      *PaymentHandler
	Ticket       *TicketHandler
	Chat         *ChatHandler
	Event        *EventHandler
	Announcement *AnnouncementHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Listing:      NewListingHandler(service.Listing, service.Rating, log),
		Order:        NewOrderHandler(service.Order, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Ticket:       NewTicketHandler(service.Ticket, log),
		Chat:         NewChatHandler(service.Chat, log),
		Event:        NewEventHandler(service.Event, log),
		Announcement: NewAnnouncementHandler(service.Announcement, log),
	}
}
