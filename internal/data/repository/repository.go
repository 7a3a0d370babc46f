package repository

import (
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type Repository struct {
	Booking      BookingRepository
	Service      ServiceRepository
	FoodOrder    FoodOrderRepository
	Payment      PaymentRepository
	Ticket       TicketRepository
	Event        EventRepository
	Chat         ChatRepository
	Rating       RatingRepository
	Announcement AnnouncementRepository
	Scanner      ScannerRepository
}

func NewRepository(store docstore.Store, log *zap.Logger) *Repository {
	return &Repository{
		Booking:      NewBookingRepository(store, log),
		Service:      NewServiceRepository(store, log),
		FoodOrder:    NewFoodOrderRepository(store, log),
		Payment:      NewPaymentRepository(store, log),
		Ticket:       NewTicketRepository(store, log),
		Event:        NewEventRepository(store, log),
		Chat:         NewChatRepository(store, log),
		Rating:       NewRatingRepository(store, log),
		Announcement: NewAnnouncementRepository(store, log),
		Scanner:      NewScannerRepository(store, log),
	}
}
