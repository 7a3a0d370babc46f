package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error
	FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)

	// Live lists for the customer and provider views
	WatchByCustomer(ctx context.Context, customerID string) (*docstore.Stream, error)
	WatchByProvider(ctx context.Context, providerID string) (*docstore.Stream, error)
}

type bookingRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewBookingRepository(store docstore.Store, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		store: store,
		log:   log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	data, err := docstore.Encode(booking)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionBookings, booking.ID, data); err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
			zap.String("customer_id", booking.CustomerID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.store.Get(ctx, entity.CollectionBookings, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	var booking entity.Booking
	if err := doc.Decode(&booking); err != nil {
		return nil, fmt.Errorf("decode booking %s: %w", id, err)
	}
	booking.ID = doc.ID
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	err := r.store.Update(ctx, entity.CollectionBookings, id, map[string]any{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("booking %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id, string(status), err)
	}

	return nil
}

func (r *bookingRepository) FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	docs, err := r.store.Query(ctx, entity.CollectionBookings,
		docstore.Where("status", docstore.OpEq, string(status)),
	)
	if err != nil {
		r.log.Error("Failed to find bookings by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find bookings by status %s: %w", string(status), err)
	}

	return decodeBookings(docs)
}

func (r *bookingRepository) WatchByCustomer(ctx context.Context, customerID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionBookings,
		[]docstore.Filter{docstore.Where("customerId", docstore.OpEq, customerID)},
		docstore.WithSort(newestFirst),
	)
}

func (r *bookingRepository) WatchByProvider(ctx context.Context, providerID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionBookings,
		[]docstore.Filter{docstore.Where("providerId", docstore.OpEq, providerID)},
		docstore.WithSort(newestFirst),
	)
}

func decodeBookings(docs []docstore.Document) ([]*entity.Booking, error) {
	bookings := make([]*entity.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking entity.Booking
		if err := doc.Decode(&booking); err != nil {
			return nil, fmt.Errorf("decode booking %s: %w", doc.ID, err)
		}
		booking.ID = doc.ID
		bookings = append(bookings, &booking)
	}
	return bookings, nil
}

// newestFirst orders snapshots by createdAt descending.
func newestFirst(a, b docstore.Document) bool {
	as, _ := a.Data["createdAt"].(string)
	bs, _ := b.Data["createdAt"].(string)
	return as > bs
}
