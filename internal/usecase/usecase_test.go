package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
)

func newTestRepo() *repository.Repository {
	return repository.NewRepository(docstore.NewMemoryStore(), zap.NewNop())
}

func seedListing(t *testing.T, repo *repository.Repository, id, providerID string) {
	t.Helper()
	now := time.Now().UTC()
	err := repo.Service.Create(context.Background(), &entity.ServiceListing{
		Base:        entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		ProviderID:  providerID,
		Title:       "Garden cleanup",
		Price:       1500,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
