package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/dto/request"
)

func TestAnnouncementStreamOrderAndExpiry(t *testing.T) {
	repo := newTestRepo()
	svc := NewAnnouncementService(repo, zap.NewNop())
	ctx := context.Background()

	older, err := svc.Create(ctx, &request.CreateAnnouncementRequest{Title: "Market day", Body: "Saturday, main square"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// force distinct createdAt ordering
	time.Sleep(5 * time.Millisecond)
	newer, err := svc.Create(ctx, &request.CreateAnnouncementRequest{Title: "Water outage", Body: "Tuesday morning"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	expired, err := svc.Create(ctx, &request.CreateAnnouncementRequest{
		Title:     "Old news",
		Body:      "already over",
		ExpiresAt: time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MarkRead(ctx, newer.ID, "alice"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	stream, err := svc.WatchForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	snap := <-stream.Snapshots()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d announcements, want 2 (expired dropped)", len(snap))
	}
	for _, doc := range snap {
		if doc.ID == expired.ID {
			t.Fatalf("expired announcement in stream")
		}
	}
	// unread-first beats recency: the older unread one leads
	if snap[0].ID != older.ID {
		t.Fatalf("first = %s, want unread %s first", snap[0].ID, older.ID)
	}
	if snap[1].ID != newer.ID {
		t.Fatalf("second = %s, want read %s last", snap[1].ID, newer.ID)
	}
}

func TestAnnouncementInvalidExpiry(t *testing.T) {
	repo := newTestRepo()
	svc := NewAnnouncementService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), &request.CreateAnnouncementRequest{
		Title:     "Bad",
		Body:      "bad expiry",
		ExpiresAt: "tomorrow-ish",
	})
	if err == nil {
		t.Fatalf("created announcement with malformed expiresAt")
	}
}
