package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreCreateIfAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "chat_rooms", "a_b", map[string]any{"participants": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created {
		t.Fatalf("expected first create to win")
	}

	created, err = store.Create(ctx, "chat_rooms", "a_b", map[string]any{"participants": []string{"b", "a"}})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("expected second create to be a no-op")
	}

	doc, err := store.Get(ctx, "chat_rooms", "a_b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	parts, _ := doc.Data["participants"].([]any)
	if len(parts) != 2 || parts[0] != "a" {
		t.Fatalf("second create must not overwrite, got %+v", doc.Data)
	}
}

func TestMemoryStoreConcurrentCreateYieldsOneWinner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	wins := make(chan bool, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.Create(ctx, "chat_rooms", "u1_u2", map[string]any{"participants": []string{"u1", "u2"}})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			wins <- created
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for created := range wins {
		if created {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winning create, got %d", won)
	}
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Set(ctx, "food_orders", "o1", map[string]any{
		"customerId":      "u1",
		"status":          "pending",
		"paymentReceived": false,
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	confirmedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	err = store.Update(ctx, "food_orders", "o1", map[string]any{
		"status":             "payment_received",
		"paymentReceived":    true,
		"paymentConfirmedAt": confirmedAt,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, err := store.Get(ctx, "food_orders", "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Data["customerId"] != "u1" {
		t.Fatalf("untouched field lost: %+v", doc.Data)
	}
	if doc.Data["status"] != "payment_received" || doc.Data["paymentReceived"] != true {
		t.Fatalf("merged fields wrong: %+v", doc.Data)
	}
	if doc.Data["paymentConfirmedAt"] == nil {
		t.Fatalf("paymentConfirmedAt missing")
	}
}

func TestMemoryStoreUpdateAbsentDocument(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(context.Background(), "bookings", "missing", map[string]any{"status": "accepted"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreQueryFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seed := map[string]map[string]any{
		"t1": {"eventId": "e1", "status": "active"},
		"t2": {"eventId": "e1", "status": "used"},
		"t3": {"eventId": "e2", "status": "active"},
	}
	for id, data := range seed {
		if err := store.Set(ctx, "tickets", id, data); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	docs, err := store.Query(ctx, "tickets", Where("eventId", OpEq, "e1"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 tickets for e1, got %d", len(docs))
	}

	count, err := store.Count(ctx, "tickets", Where("eventId", OpEq, "e1"), Where("status", OpEq, "active"))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active ticket for e1, got %d", count)
	}
}

func TestMemoryStoreArrayContains(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "announcements", "a1", map[string]any{"readBy": []string{"u1", "u2"}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	docs, err := store.Query(ctx, "announcements", Where("readBy", OpContains, "u1"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected array-contains match, got %d", len(docs))
	}

	docs, err = store.Query(ctx, "announcements", Where("readBy", OpContains, "u3"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no match for u3, got %d", len(docs))
	}
}
