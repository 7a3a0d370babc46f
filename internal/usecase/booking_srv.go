package usecase

import (
	"context"
	"fmt"
	"time"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/dto/request"
	"sokoni/internal/dto/response"
	"sokoni/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	// Customer actions
	CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	WatchCustomerBookings(ctx context.Context, customerID string) (*docstore.Stream, error)

	// Provider actions
	AcceptBooking(ctx context.Context, providerID, bookingID string) error
	RejectBooking(ctx context.Context, providerID, bookingID string) error
	CompleteBooking(ctx context.Context, providerID, bookingID string) error
	WatchProviderBookings(ctx context.Context, providerID string) (*docstore.Stream, error)

	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service, err := s.repo.Service.FindByID(ctx, req.ServiceID)
	if err != nil || service == nil {
		return nil, fmt.Errorf("service %s not found", req.ServiceID)
	}
	if !service.IsAvailable {
		return nil, fmt.Errorf("service %s is not available", req.ServiceID)
	}
	if service.ProviderID == customerID {
		return nil, fmt.Errorf("cannot book your own service")
	}

	now := time.Now().UTC()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ServiceID:  req.ServiceID,
		CustomerID: customerID,
		ProviderID: service.ProviderID,
		Status:     entity.BookingStatusPending,
	}

	// Two sequential writes without a cross-document transaction: a
	// failed reserve leaves a pending booking on an available service
	// until the reconcile job or the next state change repairs it.
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.repo.Service.Reserve(ctx, req.ServiceID, customerID); err != nil {
		s.log.Error("Booking created but service reserve failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
			zap.String("service_id", req.ServiceID),
		)
		return nil, fmt.Errorf("reserve service: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("service_id", req.ServiceID),
		zap.String("customer_id", customerID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AcceptBooking(ctx context.Context, providerID, bookingID string) error {
	return s.transition(ctx, providerID, bookingID, entity.BookingStatusAccepted)
}

func (s *bookingService) CompleteBooking(ctx context.Context, providerID, bookingID string) error {
	return s.transition(ctx, providerID, bookingID, entity.BookingStatusCompleted)
}

// RejectBooking is compound: the status change and the service release
// are separate writes, issued sequentially without rollback. A failure
// after the first write leaves a rejected booking holding the service;
// the reconcile job re-releases such services.
func (s *bookingService) RejectBooking(ctx context.Context, providerID, bookingID string) error {
	booking, err := s.authorize(ctx, providerID, bookingID, entity.BookingStatusRejected)
	if err != nil {
		return err
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusRejected); err != nil {
		return fmt.Errorf("reject booking %s: %w", bookingID, err)
	}

	if err := s.repo.Service.Release(ctx, booking.ServiceID); err != nil {
		s.log.Error("Booking rejected but service release failed",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("service_id", booking.ServiceID),
		)
		return fmt.Errorf("release service after rejection: %w", err)
	}

	s.log.Info("Booking rejected",
		zap.String("booking_id", bookingID),
		zap.String("service_id", booking.ServiceID),
	)

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) WatchCustomerBookings(ctx context.Context, customerID string) (*docstore.Stream, error) {
	return s.repo.Booking.WatchByCustomer(ctx, customerID)
}

func (s *bookingService) WatchProviderBookings(ctx context.Context, providerID string) (*docstore.Stream, error) {
	return s.repo.Booking.WatchByProvider(ctx, providerID)
}

func (s *bookingService) transition(ctx context.Context, providerID, bookingID string, to entity.BookingStatus) error {
	if _, err := s.authorize(ctx, providerID, bookingID, to); err != nil {
		return err
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, to); err != nil {
		return fmt.Errorf("transition booking %s to %s: %w", bookingID, string(to), err)
	}

	s.log.Info("Booking transitioned",
		zap.String("booking_id", bookingID),
		zap.String("status", string(to)),
	)

	return nil
}

// authorize loads the booking, checks ownership and rejects illegal
// transitions at the boundary instead of applying them silently.
func (s *bookingService) authorize(ctx context.Context, providerID, bookingID string, to entity.BookingStatus) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.ProviderID != providerID {
		return nil, fmt.Errorf("booking %s does not belong to provider", bookingID)
	}
	if !booking.Status.CanTransition(to) {
		return nil, fmt.Errorf("booking status is %s, cannot transition to %s", booking.Status, to)
	}
	return booking, nil
}
