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

type FoodOrderService interface {
	CreateOrder(ctx context.Context, customerID string, req *request.CreateFoodOrderRequest) (*response.FoodOrderResponse, error)
	ConfirmPayment(ctx context.Context, orderID string, req *request.ConfirmOrderPaymentRequest) error
	UpdateStatus(ctx context.Context, cookID, orderID string, status entity.FoodOrderStatus) error
	CancelOrder(ctx context.Context, customerID, orderID string) error
	GetOrder(ctx context.Context, orderID string) (*response.FoodOrderResponse, error)
	WatchCustomerOrders(ctx context.Context, customerID string) (*docstore.Stream, error)
	WatchCookOrders(ctx context.Context, cookID string) (*docstore.Stream, error)
}

type foodOrderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFoodOrderService(repo *repository.Repository, log *zap.Logger) FoodOrderService {
	return &foodOrderService{
		repo: repo,
		log:  log.With(zap.String("service", "food_order")),
	}
}

func (s *foodOrderService) CreateOrder(ctx context.Context, customerID string, req *request.CreateFoodOrderRequest) (*response.FoodOrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create order validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		items = append(items, entity.OrderItem{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
		total += it.Price * float64(it.Quantity)
	}

	now := time.Now().UTC()
	order := &entity.FoodOrder{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderRef:      utils.GenerateOrderRef("FD"),
		CustomerID:    customerID,
		CookID:        req.CookID,
		Items:         items,
		TotalAmount:   total,
		Status:        entity.FoodOrderStatusPending,
		PaymentMethod: req.PaymentMethod,
	}

	if err := s.repo.FoodOrder.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create food order: %w", err)
	}

	s.log.Info("Food order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.Float64("total", total),
	)

	resp := response.FoodOrderToResponse(order)
	return &resp, nil
}

// ConfirmPayment flips paymentReceived, the status and the confirmation
// time in one write so no observer ever sees a half-confirmed order.
func (s *foodOrderService) ConfirmPayment(ctx context.Context, orderID string, req *request.ConfirmOrderPaymentRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	order, err := s.repo.FoodOrder.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("order %s not found", orderID)
	}
	if order.PaymentReceived {
		// already confirmed; a second confirm is a no-op
		return nil
	}
	if order.Status != entity.FoodOrderStatusPending {
		return fmt.Errorf("order %s is %s, cannot confirm payment", orderID, order.Status)
	}

	if err := s.repo.FoodOrder.ConfirmPayment(ctx, orderID, req.PaymentMethod, time.Now().UTC()); err != nil {
		return fmt.Errorf("confirm payment for order %s: %w", orderID, err)
	}

	s.log.Info("Order payment confirmed",
		zap.String("order_id", orderID),
		zap.String("method", req.PaymentMethod),
	)

	return nil
}

func (s *foodOrderService) UpdateStatus(ctx context.Context, cookID, orderID string, status entity.FoodOrderStatus) error {
	if status == entity.FoodOrderStatusPaymentReceived {
		// payment_received is only ever written together with the
		// payment fields, through ConfirmPayment
		return fmt.Errorf("payment is confirmed through the confirm-payment operation")
	}

	order, err := s.repo.FoodOrder.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("order %s not found", orderID)
	}
	if order.CookID != cookID {
		return fmt.Errorf("order %s does not belong to cook", orderID)
	}
	if !order.Status.CanTransition(status) {
		return fmt.Errorf("order status is %s, cannot transition to %s", order.Status, status)
	}

	if err := s.repo.FoodOrder.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}

	s.log.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	return nil
}

func (s *foodOrderService) CancelOrder(ctx context.Context, customerID, orderID string) error {
	order, err := s.repo.FoodOrder.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("order %s not found", orderID)
	}
	if order.CustomerID != customerID {
		return fmt.Errorf("order %s does not belong to customer", orderID)
	}
	if order.Status != entity.FoodOrderStatusPending {
		return fmt.Errorf("order %s is %s, only pending orders can be cancelled", orderID, order.Status)
	}

	if err := s.repo.FoodOrder.UpdateStatus(ctx, orderID, entity.FoodOrderStatusCancelled); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	s.log.Info("Order cancelled", zap.String("order_id", orderID))
	return nil
}

func (s *foodOrderService) GetOrder(ctx context.Context, orderID string) (*response.FoodOrderResponse, error) {
	order, err := s.repo.FoodOrder.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s not found", orderID)
	}

	resp := response.FoodOrderToResponse(order)
	return &resp, nil
}

func (s *foodOrderService) WatchCustomerOrders(ctx context.Context, customerID string) (*docstore.Stream, error) {
	return s.repo.FoodOrder.WatchByCustomer(ctx, customerID)
}

func (s *foodOrderService) WatchCookOrders(ctx context.Context, cookID string) (*docstore.Stream, error) {
	return s.repo.FoodOrder.WatchByCook(ctx, cookID)
}
