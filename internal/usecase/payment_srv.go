package usecase

import (
	"context"
	"fmt"
	"time"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/dto/request"
	"sokoni/internal/dto/response"
	"sokoni/internal/payments"
	"sokoni/pkg/utils"

	"go.uber.org/zap"
)

type PaymentService interface {
	// InitiateCheckout calls the aggregator and records a pending
	// Payment keyed by the upstream payment id.
	InitiateCheckout(ctx context.Context, req *request.PayRequest) (*response.PayResponse, error)

	// Status polls the aggregator and mirrors its free-form payload.
	Status(ctx context.Context, paymentID string) (map[string]any, error)

	// Confirm marks the local Payment document success or failed. The
	// issuance coordinator picks up successful event purchases from the
	// resulting change notification.
	Confirm(ctx context.Context, paymentID string, req *request.ConfirmPaymentRequest) error

	GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error)
}

type paymentService struct {
	repo     *repository.Repository
	provider payments.Provider
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, provider payments.Provider, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		provider: provider,
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiateCheckout(ctx context.Context, req *request.PayRequest) (*response.PayResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Pay validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	upstream, err := s.provider.InitiatePayment(ctx, payments.PayRequest{
		Amount:  req.Amount,
		Phone:   req.Phone,
		Network: req.Network,
		UserID:  req.UserID,
		ItemID:  req.ItemID,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate checkout: %w", err)
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        upstream.PaymentID,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
		UserID:       req.UserID,
		EventID:      req.EventID,
		TicketTypeID: req.TicketTypeID,
		Amount:       req.Amount,
		Status:       entity.PaymentStatusPending,
		Reference:    req.ItemID,
		CheckoutURL:  upstream.CheckoutURL,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment %s: %w", upstream.PaymentID, err)
	}

	s.log.Info("Checkout initiated",
		zap.String("payment_id", upstream.PaymentID),
		zap.String("user_id", req.UserID),
		zap.Float64("amount", req.Amount),
	)

	return &response.PayResponse{
		PaymentID:   upstream.PaymentID,
		CheckoutURL: upstream.CheckoutURL,
	}, nil
}

func (s *paymentService) Status(ctx context.Context, paymentID string) (map[string]any, error) {
	status, err := s.provider.PaymentStatus(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *paymentService) Confirm(ctx context.Context, paymentID string, req *request.ConfirmPaymentRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("find payment %s: %w", paymentID, err)
	}
	if payment == nil {
		return fmt.Errorf("payment %s not found", paymentID)
	}
	if payment.Status != entity.PaymentStatusPending {
		// terminal statuses never change; a repeated confirm with the
		// same outcome is a no-op
		if string(payment.Status) == req.Status {
			return nil
		}
		return fmt.Errorf("payment %s is already %s", paymentID, payment.Status)
	}

	status := entity.PaymentStatus(req.Status)
	if err := s.repo.Payment.UpdateStatus(ctx, paymentID, status); err != nil {
		return fmt.Errorf("confirm payment %s: %w", paymentID, err)
	}

	s.log.Info("Payment confirmed",
		zap.String("payment_id", paymentID),
		zap.String("status", req.Status),
	)

	return nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("find payment %s: %w", paymentID, err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}
	return payment, nil
}
