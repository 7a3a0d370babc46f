package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/dto/request"
)

func TestEventComments(t *testing.T) {
	repo := newTestRepo()
	svc := NewEventService(repo, zap.NewNop())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host-1", &request.CreateEventRequest{
		Title:    "Harvest festival",
		Venue:    "Community hall",
		StartsAt: time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := svc.AddComment(ctx, event.ID, "alice", "Alice", &request.AddCommentRequest{Text: "count me in"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := svc.AddComment(ctx, event.ID, "bob", "", &request.AddCommentRequest{Text: "me too"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	got, err := svc.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if len(got.Comments) != 2 {
		t.Fatalf("%d comments, want 2", len(got.Comments))
	}
	if got.Comments[0].AuthorName != "Alice" || got.Comments[0].Text != "count me in" {
		t.Fatalf("first comment = %+v", got.Comments[0])
	}
	// a missing author name is normalized
	if got.Comments[1].AuthorName != "Unknown" {
		t.Fatalf("nameless comment author = %q, want Unknown", got.Comments[1].AuthorName)
	}
}

func TestCreateEventRejectsBadStart(t *testing.T) {
	repo := newTestRepo()
	svc := NewEventService(repo, zap.NewNop())

	_, err := svc.CreateEvent(context.Background(), "host-1", &request.CreateEventRequest{
		Title:    "Broken",
		StartsAt: "next friday",
	})
	if err == nil {
		t.Fatalf("created event with malformed startsAt")
	}
}

func TestWatchEventSeesNewComments(t *testing.T) {
	repo := newTestRepo()
	svc := NewEventService(repo, zap.NewNop())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "host-1", &request.CreateEventRequest{
		Title:    "Cleanup drive",
		StartsAt: time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	stream, err := svc.WatchEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	snap := <-stream.Snapshots()
	if len(snap) != 1 {
		t.Fatalf("initial snapshot has %d docs, want 1", len(snap))
	}

	if err := svc.AddComment(ctx, event.ID, "alice", "Alice", &request.AddCommentRequest{Text: "bringing gloves"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	waitFor(t, "comment in stream", func() bool {
		select {
		case snap, ok := <-stream.Snapshots():
			if !ok || len(snap) != 1 {
				return false
			}
			var got struct {
				Comments []struct {
					Text string `json:"text"`
				} `json:"comments"`
			}
			if err := snap[0].Decode(&got); err != nil {
				return false
			}
			return len(got.Comments) == 1 && got.Comments[0].Text == "bringing gloves"
		default:
			return false
		}
	})
}
