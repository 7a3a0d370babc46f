package repository

import (
	"context"
	"errors"
	"fmt"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type ScannerRepository interface {
	Create(ctx context.Context, scanner *entity.Scanner) error
	FindByID(ctx context.Context, id string) (*entity.Scanner, error)
}

type scannerRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewScannerRepository(store docstore.Store, log *zap.Logger) ScannerRepository {
	return &scannerRepository{
		store: store,
		log:   log.With(zap.String("repository", "scanner")),
	}
}

func (r *scannerRepository) Create(ctx context.Context, scanner *entity.Scanner) error {
	data, err := docstore.Encode(scanner)
	if err != nil {
		return fmt.Errorf("encode scanner: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionScanners, scanner.ID, data); err != nil {
		r.log.Error("Failed to create scanner",
			zap.Error(err),
			zap.String("scanner_id", scanner.ID),
		)
		return fmt.Errorf("create scanner %s: %w", scanner.ID, err)
	}

	return nil
}

func (r *scannerRepository) FindByID(ctx context.Context, id string) (*entity.Scanner, error) {
	doc, err := r.store.Get(ctx, entity.CollectionScanners, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find scanner by ID",
			zap.Error(err),
			zap.String("scanner_id", id),
		)
		return nil, fmt.Errorf("find scanner by ID %s: %w", id, err)
	}

	var scanner entity.Scanner
	if err := doc.Decode(&scanner); err != nil {
		return nil, fmt.Errorf("decode scanner %s: %w", id, err)
	}
	scanner.ID = doc.ID
	return &scanner, nil
}
