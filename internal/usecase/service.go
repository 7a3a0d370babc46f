package usecase

import (
	"sokoni/internal/data/repository"
	"sokoni/internal/payments"

	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Listing      ListingService
	Order        FoodOrderService
	Payment      PaymentService
	Ticket       TicketService
	Chat         ChatService
	Rating       RatingService
	Announcement AnnouncementService
	Event        EventService
}

func NewService(repo *repository.Repository, provider payments.Provider, log *zap.Logger) *Service {
	return &Service{
		Booking:      NewBookingService(repo, log),
		Listing:      NewListingService(repo, log),
		Order:        NewFoodOrderService(repo, log),
		Payment:      NewPaymentService(repo, provider, log),
		Ticket:       NewTicketService(repo, log),
		Chat:         NewChatService(repo, log),
		Rating:       NewRatingService(repo, log),
		Announcement: NewAnnouncementService(repo, log),
		Event:        NewEventService(repo, log),
	}
}
