package usecase

import (
	"context"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
)

// Issuer watches the payments collection and mints tickets for event
// purchases that reach success. Ticket creation is keyed by payment id,
// so reprocessing the same payment across snapshots or restarts still
// yields exactly one ticket.
type Issuer struct {
	repo   *repository.Repository
	ticket TicketService
	log    *zap.Logger

	seen map[string]struct{}
}

func NewIssuer(repo *repository.Repository, ticket TicketService, log *zap.Logger) *Issuer {
	return &Issuer{
		repo:   repo,
		ticket: ticket,
		log:    log.With(zap.String("component", "ticket_issuer")),
		seen:   make(map[string]struct{}),
	}
}

// Run blocks until ctx is cancelled or the payment stream fails. The
// caller owns the restart policy.
func (i *Issuer) Run(ctx context.Context) error {
	stream, err := i.repo.Payment.Watch(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	i.log.Info("Ticket issuer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-stream.Snapshots():
			if !ok {
				err := stream.Err()
				if err != nil {
					i.log.Error("Payment stream failed", zap.Error(err))
				}
				return err
			}
			for _, doc := range snap {
				var payment entity.Payment
				if decodeErr := doc.Decode(&payment); decodeErr != nil {
					i.log.Warn("Skipping undecodable payment", zap.String("payment_id", doc.ID), zap.Error(decodeErr))
					continue
				}
				payment.ID = doc.ID
				i.process(ctx, &payment)
			}
		}
	}
}

func (i *Issuer) process(ctx context.Context, payment *entity.Payment) {
	if payment.Status != entity.PaymentStatusSuccess || payment.EventID == "" {
		return
	}
	if _, done := i.seen[payment.ID]; done {
		return
	}

	if _, err := i.ticket.IssueTicket(ctx, payment.ID, payment.EventID, payment.TicketTypeID, payment.UserID); err != nil {
		// leave unseen so the next snapshot retries
		i.log.Error("Issuance failed",
			zap.Error(err),
			zap.String("payment_id", payment.ID),
		)
		return
	}

	i.seen[payment.ID] = struct{}{}
}
