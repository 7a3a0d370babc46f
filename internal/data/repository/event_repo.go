package repository

import (
	"context"
	"errors"
	"fmt"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id string) (*entity.Event, error)

	// AppendComment adds one comment to the event's append-only list.
	AppendComment(ctx context.Context, eventID string, comment entity.EventComment) error

	WatchByID(ctx context.Context, id string) (*docstore.Stream, error)
}

type eventRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewEventRepository(store docstore.Store, log *zap.Logger) EventRepository {
	return &eventRepository{
		store: store,
		log:   log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	data, err := docstore.Encode(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionEvents, event.ID, data); err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("event_id", event.ID),
		)
		return fmt.Errorf("create event %s: %w", event.ID, err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	doc, err := r.store.Get(ctx, entity.CollectionEvents, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id, err)
	}

	var event entity.Event
	if err := doc.Decode(&event); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	event.ID = doc.ID
	return &event, nil
}

func (r *eventRepository) AppendComment(ctx context.Context, eventID string, comment entity.EventComment) error {
	event, err := r.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %s not found", eventID)
	}

	err = r.store.Update(ctx, entity.CollectionEvents, eventID, map[string]any{
		"comments": append(event.Comments, comment),
	})
	if err != nil {
		r.log.Error("Failed to append comment",
			zap.Error(err),
			zap.String("event_id", eventID),
		)
		return fmt.Errorf("append comment to event %s: %w", eventID, err)
	}

	return nil
}

func (r *eventRepository) WatchByID(ctx context.Context, id string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionEvents, nil,
		docstore.WithKeep(func(doc docstore.Document) bool { return doc.ID == id }),
	)
}
