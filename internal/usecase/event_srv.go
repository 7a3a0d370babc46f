package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/dto/request"
	"sokoni/pkg/utils"
)

type EventService interface {
	CreateEvent(ctx context.Context, hostID string, req *request.CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	AddComment(ctx context.Context, eventID, authorID, authorName string, req *request.AddCommentRequest) error
	WatchEvent(ctx context.Context, id string) (*docstore.Stream, error)
}

type eventService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, hostID string, req *request.CreateEventRequest) (*entity.Event, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid startsAt: %w", err)
	}

	now := time.Now().UTC()
	event := &entity.Event{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:      hostID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    startsAt.UTC(),
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("host_id", hostID),
	)

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find event %s: %w", id, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", id)
	}
	return event, nil
}

func (s *eventService) AddComment(ctx context.Context, eventID, authorID, authorName string, req *request.AddCommentRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if authorName == "" {
		authorName = "Unknown"
	}

	comment := entity.EventComment{
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       req.Text,
		Timestamp:  time.Now().UTC(),
	}

	if err := s.repo.Event.AppendComment(ctx, eventID, comment); err != nil {
		return fmt.Errorf("comment on event %s: %w", eventID, err)
	}

	return nil
}

func (s *eventService) WatchEvent(ctx context.Context, id string) (*docstore.Stream, error) {
	return s.repo.Event.WatchByID(ctx, id)
}
