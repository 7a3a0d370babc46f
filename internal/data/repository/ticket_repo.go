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

type TicketRepository interface {
	// Create writes the ticket only if its id is absent and reports
	// whether this call created it. The id equals the payment id, which
	// is what makes retried issuance idempotent.
	Create(ctx context.Context, ticket *entity.Ticket) (bool, error)

	FindByID(ctx context.Context, id string) (*entity.Ticket, error)
	FindByQRCode(ctx context.Context, qrCode string) (*entity.Ticket, error)
	FindByUser(ctx context.Context, userID string) ([]*entity.Ticket, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	CountByEvent(ctx context.Context, eventID string) (int64, error)

	CreateType(ctx context.Context, tt *entity.TicketType) error
	TypesByEvent(ctx context.Context, eventID string) ([]*entity.TicketType, error)
	WatchTypesByEvent(ctx context.Context, eventID string) (*docstore.Stream, error)
	WatchByEvent(ctx context.Context, eventID string) (*docstore.Stream, error)
}

type ticketRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewTicketRepository(store docstore.Store, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		store: store,
		log:   log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) (bool, error) {
	data, err := docstore.Encode(ticket)
	if err != nil {
		return false, fmt.Errorf("encode ticket: %w", err)
	}

	created, err := r.store.Create(ctx, entity.CollectionTickets, ticket.ID, data)
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID),
			zap.String("event_id", ticket.EventID),
		)
		return false, fmt.Errorf("create ticket %s: %w", ticket.ID, err)
	}

	return created, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*entity.Ticket, error) {
	doc, err := r.store.Get(ctx, entity.CollectionTickets, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id, err)
	}

	return decodeTicket(*doc)
}

func (r *ticketRepository) FindByQRCode(ctx context.Context, qrCode string) (*entity.Ticket, error) {
	docs, err := r.store.Query(ctx, entity.CollectionTickets,
		docstore.Where("qrCode", docstore.OpEq, qrCode),
	)
	if err != nil {
		r.log.Error("Failed to find ticket by QR code", zap.Error(err))
		return nil, fmt.Errorf("find ticket by QR code: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	return decodeTicket(docs[0])
}

func (r *ticketRepository) FindByUser(ctx context.Context, userID string) ([]*entity.Ticket, error) {
	docs, err := r.store.Query(ctx, entity.CollectionTickets,
		docstore.Where("userId", docstore.OpEq, userID),
	)
	if err != nil {
		r.log.Error("Failed to find tickets by user",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find tickets by user %s: %w", userID, err)
	}

	tickets := make([]*entity.Ticket, 0, len(docs))
	for _, doc := range docs {
		ticket, err := decodeTicket(doc)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (r *ticketRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	err := r.store.Update(ctx, entity.CollectionTickets, id, map[string]any{
		"status": entity.TicketStatusUsed,
		"usedAt": usedAt.UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("ticket %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to mark ticket used",
			zap.Error(err),
			zap.String("ticket_id", id),
		)
		return fmt.Errorf("mark ticket %s used: %w", id, err)
	}

	return nil
}

func (r *ticketRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	count, err := r.store.Count(ctx, entity.CollectionTickets,
		docstore.Where("eventId", docstore.OpEq, eventID),
	)
	if err != nil {
		r.log.Error("Failed to count tickets by event",
			zap.Error(err),
			zap.String("event_id", eventID),
		)
		return 0, fmt.Errorf("count tickets for event %s: %w", eventID, err)
	}
	return count, nil
}

func (r *ticketRepository) CreateType(ctx context.Context, tt *entity.TicketType) error {
	data, err := docstore.Encode(tt)
	if err != nil {
		return fmt.Errorf("encode ticket type: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionTicketTypes, tt.ID, data); err != nil {
		r.log.Error("Failed to create ticket type",
			zap.Error(err),
			zap.String("ticket_type_id", tt.ID),
		)
		return fmt.Errorf("create ticket type %s: %w", tt.ID, err)
	}

	return nil
}

func (r *ticketRepository) TypesByEvent(ctx context.Context, eventID string) ([]*entity.TicketType, error) {
	docs, err := r.store.Query(ctx, entity.CollectionTicketTypes,
		docstore.Where("eventId", docstore.OpEq, eventID),
	)
	if err != nil {
		r.log.Error("Failed to list ticket types",
			zap.Error(err),
			zap.String("event_id", eventID),
		)
		return nil, fmt.Errorf("list ticket types for event %s: %w", eventID, err)
	}

	types := make([]*entity.TicketType, 0, len(docs))
	for _, doc := range docs {
		var tt entity.TicketType
		if err := doc.Decode(&tt); err != nil {
			return nil, fmt.Errorf("decode ticket type %s: %w", doc.ID, err)
		}
		tt.ID = doc.ID
		types = append(types, &tt)
	}
	return types, nil
}

func (r *ticketRepository) WatchTypesByEvent(ctx context.Context, eventID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionTicketTypes,
		[]docstore.Filter{docstore.Where("eventId", docstore.OpEq, eventID)},
	)
}

func (r *ticketRepository) WatchByEvent(ctx context.Context, eventID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionTickets,
		[]docstore.Filter{docstore.Where("eventId", docstore.OpEq, eventID)},
	)
}

func decodeTicket(doc docstore.Document) (*entity.Ticket, error) {
	var ticket entity.Ticket
	if err := doc.Decode(&ticket); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", doc.ID, err)
	}
	ticket.ID = doc.ID
	return &ticket, nil
}
