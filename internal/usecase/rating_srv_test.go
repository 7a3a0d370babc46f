package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/dto/request"
)

func TestRateUpsertsScore(t *testing.T) {
	repo := newTestRepo()
	svc := NewRatingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	rate := func(user string, score float64) {
		t.Helper()
		err := svc.Rate(context.Background(), user, &request.RateServiceRequest{
			ServiceID: "svc-1",
			Score:     score,
		})
		if err != nil {
			t.Fatalf("rate: %v", err)
		}
	}

	rate("alice", 2)
	rate("bob", 4)
	rate("alice", 5) // replaces alice's first score

	ratings, err := repo.Rating.ListByService(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("%d ratings, want 2", len(ratings))
	}
	if got := entity.AverageScore(ratings); got != 4.5 {
		t.Fatalf("average = %v, want 4.5", got)
	}
}

func TestRateUnknownService(t *testing.T) {
	repo := newTestRepo()
	svc := NewRatingService(repo, zap.NewNop())

	err := svc.Rate(context.Background(), "alice", &request.RateServiceRequest{
		ServiceID: "nope",
		Score:     3,
	})
	if err == nil {
		t.Fatalf("rated a missing service")
	}
}

func TestWatchServiceMergesMean(t *testing.T) {
	repo := newTestRepo()
	svc := NewRatingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	stream, err := svc.WatchService(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	var got entity.RatedListing
	waitFor(t, "initial merged view", func() bool {
		select {
		case got = <-stream.Listings():
			return got.Service.ID == "svc-1" && got.RatingCount == 0
		default:
			return false
		}
	})

	if err := svc.Rate(context.Background(), "alice", &request.RateServiceRequest{ServiceID: "svc-1", Score: 4}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	waitFor(t, "recomputed mean", func() bool {
		select {
		case got = <-stream.Listings():
			return got.RatingCount == 1 && got.AverageRating == 4
		default:
			return false
		}
	})
}

func TestWatchListingsFirstEmissionComplete(t *testing.T) {
	repo := newTestRepo()
	svc := NewRatingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")
	seedListing(t, repo, "svc-2", "provider-2")

	if err := svc.Rate(context.Background(), "alice", &request.RateServiceRequest{ServiceID: "svc-1", Score: 5}); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := svc.Rate(context.Background(), "bob", &request.RateServiceRequest{ServiceID: "svc-2", Score: 3}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	stream, err := svc.WatchListings(context.Background())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	// the very first emission already carries every listing's mean;
	// there is no partial snapshot while children are still loading
	first := <-stream.Listings()
	if len(first) != 2 {
		t.Fatalf("first emission has %d listings, want 2", len(first))
	}
	means := make(map[string]float64, len(first))
	for _, rl := range first {
		means[rl.Service.ID] = rl.AverageRating
	}
	if means["svc-1"] != 5 || means["svc-2"] != 3 {
		t.Fatalf("first emission means = %v", means)
	}
}

func TestWatchListingsReemitsOnRating(t *testing.T) {
	repo := newTestRepo()
	svc := NewRatingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	stream, err := svc.WatchListings(context.Background())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	waitFor(t, "first emission", func() bool {
		select {
		case snap := <-stream.Listings():
			return len(snap) == 1
		default:
			return false
		}
	})

	if err := svc.Rate(context.Background(), "alice", &request.RateServiceRequest{ServiceID: "svc-1", Score: 2}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	waitFor(t, "re-emission with new mean", func() bool {
		select {
		case snap := <-stream.Listings():
			return len(snap) == 1 && snap[0].AverageRating == 2 && snap[0].RatingCount == 1
		default:
			return false
		}
	})
}
