package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store with in-process change notification.
// It backs tests and local development; semantics mirror PostgresStore.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]map[string]any // collection -> id -> payload
	watchers map[string][]*memoryWatcher
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]map[string]map[string]any),
		watchers: make(map[string][]*memoryWatcher),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: clone(payload)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	s.data[collection][id] = normalized
	s.mu.Unlock()

	s.notify(Event{Collection: collection, ID: id, Op: OpSet})
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, collection, id string, data map[string]any) (bool, error) {
	normalized, err := normalize(data)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	if _, exists := s.data[collection][id]; exists {
		s.mu.Unlock()
		return false, nil
	}
	s.data[collection][id] = normalized
	s.mu.Unlock()

	s.notify(Event{Collection: collection, ID: id, Op: OpSet})
	return true, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	remove := make(map[string]bool)
	merge := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			remove[k] = true
		} else {
			merge[k] = v
		}
	}

	normalized, err := normalize(merge)
	if err != nil {
		return err
	}

	s.mu.Lock()
	payload, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k := range remove {
		delete(payload, k)
	}
	for k, v := range normalized {
		payload[k] = v
	}
	s.mu.Unlock()

	s.notify(Event{Collection: collection, ID: id, Op: OpSet})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	_, existed := s.data[collection][id]
	delete(s.data[collection], id)
	s.mu.Unlock()

	if existed {
		s.notify(Event{Collection: collection, ID: id, Op: OpDelete})
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, payload := range s.data[collection] {
		doc := Document{ID: id, Data: clone(payload)}
		if Matches(doc, filters) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	docs, err := s.Query(ctx, collection, filters...)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *MemoryStore) Watch(ctx context.Context, collection string) (Watcher, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	w := &memoryWatcher{
		store:      s,
		collection: collection,
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}
	s.watchers[collection] = append(s.watchers[collection], w)
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.Close()
		case <-w.done:
		}
	}()

	return w, nil
}

// Close detaches every watcher. Further watches fail with ErrClosed.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	s.closed = true
	var all []*memoryWatcher
	for _, ws := range s.watchers {
		all = append(all, ws...)
	}
	s.watchers = make(map[string][]*memoryWatcher)
	s.mu.Unlock()

	for _, w := range all {
		w.Close()
	}
}

func (s *MemoryStore) notify(ev Event) {
	s.mu.RLock()
	watchers := append([]*memoryWatcher(nil), s.watchers[ev.Collection]...)
	s.mu.RUnlock()

	for _, w := range watchers {
		w.deliver(ev)
	}
}

func (s *MemoryStore) detach(target *memoryWatcher) {
	s.mu.Lock()
	ws := s.watchers[target.collection]
	for i, w := range ws {
		if w == target {
			s.watchers[target.collection] = append(ws[:i], ws[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}

type memoryWatcher struct {
	store      *MemoryStore
	collection string
	events     chan Event
	done       chan struct{}

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func (w *memoryWatcher) Events() <-chan Event { return w.events }

func (w *memoryWatcher) Err() error { return nil }

func (w *memoryWatcher) Close() {
	w.closeOnce.Do(func() {
		w.store.detach(w)
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
		close(w.events)
	})
}

func (w *memoryWatcher) deliver(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
		// watcher is saturated; the consumer requeries on the next
		// event anyway, so dropping here loses nothing
	}
}

// normalize round-trips payloads through JSON so stored shapes match what
// PostgresStore would return (float64 numbers, RFC3339 time strings).
func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}

func clone(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
