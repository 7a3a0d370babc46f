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

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.ServiceListing) error
	FindByID(ctx context.Context, id string) (*entity.ServiceListing, error)
	FindAll(ctx context.Context) ([]*entity.ServiceListing, error)

	// Reserve marks the service taken by a customer; Release makes it
	// available again and removes bookedBy entirely.
	Reserve(ctx context.Context, id, customerID string) error
	Release(ctx context.Context, id string) error

	Watch(ctx context.Context) (*docstore.Stream, error)
	WatchByID(ctx context.Context, id string) (*docstore.Stream, error)
}

type serviceRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewServiceRepository(store docstore.Store, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		store: store,
		log:   log.With(zap.String("repository", "service")),
	}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.ServiceListing) error {
	data, err := docstore.Encode(service)
	if err != nil {
		return fmt.Errorf("encode service: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionServices, service.ID, data); err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("service_id", service.ID),
		)
		return fmt.Errorf("create service %s: %w", service.ID, err)
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*entity.ServiceListing, error) {
	doc, err := r.store.Get(ctx, entity.CollectionServices, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id),
		)
		return nil, fmt.Errorf("find service by ID %s: %w", id, err)
	}

	var service entity.ServiceListing
	if err := doc.Decode(&service); err != nil {
		return nil, fmt.Errorf("decode service %s: %w", id, err)
	}
	service.ID = doc.ID
	return &service, nil
}

func (r *serviceRepository) FindAll(ctx context.Context) ([]*entity.ServiceListing, error) {
	docs, err := r.store.Query(ctx, entity.CollectionServices)
	if err != nil {
		r.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}

	services := make([]*entity.ServiceListing, 0, len(docs))
	for _, doc := range docs {
		var service entity.ServiceListing
		if err := doc.Decode(&service); err != nil {
			return nil, fmt.Errorf("decode service %s: %w", doc.ID, err)
		}
		service.ID = doc.ID
		services = append(services, &service)
	}
	return services, nil
}

func (r *serviceRepository) Reserve(ctx context.Context, id, customerID string) error {
	err := r.store.Update(ctx, entity.CollectionServices, id, map[string]any{
		"isAvailable": false,
		"bookedBy":    customerID,
		"updatedAt":   time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("service %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to reserve service",
			zap.Error(err),
			zap.String("service_id", id),
			zap.String("customer_id", customerID),
		)
		return fmt.Errorf("reserve service %s: %w", id, err)
	}

	return nil
}

func (r *serviceRepository) Release(ctx context.Context, id string) error {
	// nil removes bookedBy so an available service carries no holder
	err := r.store.Update(ctx, entity.CollectionServices, id, map[string]any{
		"isAvailable": true,
		"bookedBy":    nil,
		"updatedAt":   time.Now().UTC(),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("service %s not found", id)
	}
	if err != nil {
		r.log.Error("Failed to release service",
			zap.Error(err),
			zap.String("service_id", id),
		)
		return fmt.Errorf("release service %s: %w", id, err)
	}

	return nil
}

func (r *serviceRepository) Watch(ctx context.Context) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionServices, nil,
		docstore.WithSort(newestFirst),
	)
}

func (r *serviceRepository) WatchByID(ctx context.Context, id string) (*docstore.Stream, error) {
	return docstore.Subscribe(ctx, r.store, entity.CollectionServices, nil,
		docstore.WithKeep(func(doc docstore.Document) bool { return doc.ID == id }),
	)
}
