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

type ListingService interface {
	CreateListing(ctx context.Context, providerID string, req *request.CreateServiceRequest) (*entity.ServiceListing, error)
	GetListing(ctx context.Context, id string) (*entity.ServiceListing, error)
	ListAll(ctx context.Context) ([]*entity.ServiceListing, error)
	WatchAll(ctx context.Context) (*docstore.Stream, error)
}

type listingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewListingService(repo *repository.Repository, log *zap.Logger) ListingService {
	return &listingService{
		repo: repo,
		log:  log.With(zap.String("service", "listing")),
	}
}

func (s *listingService) CreateListing(ctx context.Context, providerID string, req *request.CreateServiceRequest) (*entity.ServiceListing, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now().UTC()
	listing := &entity.ServiceListing{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProviderID:  providerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsAvailable: true,
	}

	if err := s.repo.Service.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info("Listing created",
		zap.String("listing_id", listing.ID),
		zap.String("provider_id", providerID),
	)

	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id string) (*entity.ServiceListing, error) {
	listing, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find listing %s: %w", id, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s not found", id)
	}
	return listing, nil
}

func (s *listingService) ListAll(ctx context.Context) ([]*entity.ServiceListing, error) {
	return s.repo.Service.FindAll(ctx)
}

func (s *listingService) WatchAll(ctx context.Context) (*docstore.Stream, error) {
	return s.repo.Service.Watch(ctx)
}
