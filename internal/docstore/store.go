package docstore

import (
	"context"
)

// Store is the document-store client capability handed to every component.
// The backing service owns the data; callers hold no authoritative copy and
// must treat reads as potentially stale between change notifications.
type Store interface {
	// Get returns one document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Set writes the full document payload (upsert).
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Create writes the document only if the id is absent. It reports
	// whether this call created it; a lost race is not an error.
	Create(ctx context.Context, collection, id string, data map[string]any) (bool, error)

	// Update merges the given fields into one document atomically. A nil
	// field value removes the field. Returns ErrNotFound for an absent
	// document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Query returns all documents of a collection matching the filters.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// Count returns the number of matching documents.
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)

	// Watch attaches to the collection's change notifications. The watcher
	// stays attached until closed or the context is cancelled.
	Watch(ctx context.Context, collection string) (Watcher, error)
}

// Watcher delivers change notifications for one collection.
type Watcher interface {
	// Events yields notifications until the watcher closes. The channel is
	// closed after cancellation or a fatal notification-layer error.
	Events() <-chan Event

	// Err reports the fatal error, if any, after Events is closed.
	Err() error

	// Close detaches from the notification source. Idempotent.
	Close()
}
