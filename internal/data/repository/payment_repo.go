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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) error

	// Watch follows the whole payments collection; the ticket issuance
	// coordinator consumes it to observe status transitions.
	Watch(ctx context.Context) (*docstore.Stream, error)
}

type paymentRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewPaymentRepository(store docstore.Store, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		store: store,
		log:   log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	data, err := docstore.Encode(payment)
	if err != nil {
		return fmt.Errorf("encode payment: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionPayments, payment.ID, data); err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID),
			zap.String("user_id", payment.UserID),
		)
		return fmt.Errorf("create payment %s: %w", payment.ID, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	doc, err := r.store.Get(ctx, entity.CollectionPayments, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id, err)
	}

	var payment entity.Payment
	if err := doc.Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode payment %s: %w", id, err)
	}
	payment.ID = doc.ID
	return &payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) error {
	err := r.store.Update(ctx, entity.CollectionPayments, id, map[string]any{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("payment %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", id, string(status), err)
	}

	return nil
}

func (r *paymentRepository) Watch(ctx context.Context) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionPayments, nil)
}
