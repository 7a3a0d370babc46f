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

type FoodOrderRepository interface {
	Create(ctx context.Context, order *entity.FoodOrder) error
	FindByID(ctx context.Context, id string) (*entity.FoodOrder, error)
	UpdateStatus(ctx context.Context, id string, status entity.FoodOrderStatus) error

	// ConfirmPayment writes paymentReceived, status and paymentConfirmedAt
	// as one atomic multi-field update.
	ConfirmPayment(ctx context.Context, id, method string, confirmedAt time.Time) error

	WatchByCustomer(ctx context.Context, customerID string) (*docstore.Stream, error)
	WatchByCook(ctx context.Context, cookID string) (*docstore.Stream, error)
}

type foodOrderRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewFoodOrderRepository(store docstore.Store, log *zap.Logger) FoodOrderRepository {
	return &foodOrderRepository{
		store: store,
		log:   log.With(zap.String("repository", "food_order")),
	}
}

func (r *foodOrderRepository) Create(ctx context.Context, order *entity.FoodOrder) error {
	data, err := docstore.Encode(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionFoodOrders, order.ID, data); err != nil {
		r.log.Error("Failed to create food order",
			zap.Error(err),
			zap.String("order_id", order.ID),
			zap.String("customer_id", order.CustomerID),
		)
		return fmt.Errorf("create food order %s: %w", order.ID, err)
	}

	return nil
}

func (r *foodOrderRepository) FindByID(ctx context.Context, id string) (*entity.FoodOrder, error) {
	doc, err := r.store.Get(ctx, entity.CollectionFoodOrders, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find food order by ID",
			zap.Error(err),
			zap.String("order_id", id),
		)
		return nil, fmt.Errorf("find food order by ID %s: %w", id, err)
	}

	var order entity.FoodOrder
	if err := doc.Decode(&order); err != nil {
		return nil, fmt.Errorf("decode food order %s: %w", id, err)
	}
	order.ID = doc.ID
	return &order, nil
}

func (r *foodOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.FoodOrderStatus) error {
	err := r.store.Update(ctx, entity.CollectionFoodOrders, id, map[string]any{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("food order %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to update food order status",
			zap.Error(err),
			zap.String("order_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update food order %s status to %s: %w", id, string(status), err)
	}

	return nil
}

func (r *foodOrderRepository) ConfirmPayment(ctx context.Context, id, method string, confirmedAt time.Time) error {
	err := r.store.Update(ctx, entity.CollectionFoodOrders, id, map[string]any{
		"paymentReceived":    true,
		"status":             entity.FoodOrderStatusPaymentReceived,
		"paymentConfirmedAt": confirmedAt.UTC(),
		"paymentMethod":      method,
		"updatedAt":          time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("food order %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to confirm food order payment",
			zap.Error(err),
			zap.String("order_id", id),
		)
		return fmt.Errorf("confirm payment for food order %s: %w", id, err)
	}

	return nil
}

func (r *foodOrderRepository) WatchByCustomer(ctx context.Context, customerID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionFoodOrders,
		[]docstore.Filter{docstore.Where("customerId", docstore.OpEq, customerID)},
		docstore.WithSort(newestFirst),
	)
}

func (r *foodOrderRepository) WatchByCook(ctx context.Context, cookID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionFoodOrders,
		[]docstore.Filter{docstore.Where("cookId", docstore.OpEq, cookID)},
		docstore.WithSort(newestFirst),
	)
}
