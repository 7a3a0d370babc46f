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

type AnnouncementService interface {
	Create(ctx context.Context, req *request.CreateAnnouncementRequest) (*entity.Announcement, error)
	MarkRead(ctx context.Context, announcementID, userID string) error

	// WatchForUser streams non-expired announcements, unread first.
	WatchForUser(ctx context.Context, userID string) (*docstore.Stream, error)
}

type announcementService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAnnouncementService(repo *repository.Repository, log *zap.Logger) AnnouncementService {
	return &announcementService{
		repo: repo,
		log:  log.With(zap.String("service", "announcement")),
	}
}

func (s *announcementService) Create(ctx context.Context, req *request.CreateAnnouncementRequest) (*entity.Announcement, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	ann := &entity.Announcement{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: time.Now().UTC(),
		},
		Title:  req.Title,
		Body:   req.Body,
		ReadBy: []string{},
	}

	if req.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expiresAt: %w", err)
		}
		expires = expires.UTC()
		ann.ExpiresAt = &expires
	}

	if err := s.repo.Announcement.Create(ctx, ann); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.log.Info("Announcement created", zap.String("announcement_id", ann.ID))
	return ann, nil
}

func (s *announcementService) MarkRead(ctx context.Context, announcementID, userID string) error {
	if err := s.repo.Announcement.MarkRead(ctx, announcementID, userID); err != nil {
		return fmt.Errorf("mark announcement %s read: %w", announcementID, err)
	}
	return nil
}

func (s *announcementService) WatchForUser(ctx context.Context, userID string) (*docstore.Stream, error) {
	return s.repo.Announcement.WatchForUser(ctx, userID)
}
