package repository

import (
	"context"
	"fmt"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type RatingRepository interface {
	// Upsert writes a user's rating for a service. The document id is
	// derived from the pair, so re-rating replaces the old score.
	Upsert(ctx context.Context, rating *entity.Rating) error

	ListByService(ctx context.Context, serviceID string) ([]entity.Rating, error)
	WatchByService(ctx context.Context, serviceID string) (*docstore.Stream, error)
}

type ratingRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewRatingRepository(store docstore.Store, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		store: store,
		log:   log.With(zap.String("repository", "rating")),
	}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	if rating.ID == "" {
		rating.ID = rating.ServiceID + "_" + rating.UserID
	}

	data, err := docstore.Encode(rating)
	if err != nil {
		return fmt.Errorf("encode rating: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionRatings, rating.ID, data); err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("service_id", rating.ServiceID),
			zap.String("user_id", rating.UserID),
		)
		return fmt.Errorf("upsert rating %s: %w", rating.ID, err)
	}

	return nil
}

func (r *ratingRepository) ListByService(ctx context.Context, serviceID string) ([]entity.Rating, error) {
	docs, err := r.store.Query(ctx, entity.CollectionRatings,
		docstore.Where("serviceId", docstore.OpEq, serviceID),
	)
	if err != nil {
		r.log.Error("Failed to list ratings",
			zap.Error(err),
			zap.String("service_id", serviceID),
		)
		return nil, fmt.Errorf("list ratings for service %s: %w", serviceID, err)
	}

	ratings, err := docstore.DecodeAll[entity.Rating](docs)
	if err != nil {
		return nil, fmt.Errorf("decode ratings for service %s: %w", serviceID, err)
	}
	return ratings, nil
}

func (r *ratingRepository) WatchByService(ctx context.Context, serviceID string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionRatings,
		[]docstore.Filter{docstore.Where("serviceId", docstore.OpEq, serviceID)},
	)
}
