package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Snapshot is one full recomputed result set. Streams always re-emit the
// whole set rather than diffs; consumers re-render from scratch.
type Snapshot []Document

// StreamOption adjusts consumer-side transforms applied to every snapshot.
type StreamOption func(*streamOptions)

type streamOptions struct {
	keep func(Document) bool
	less func(a, b Document) bool
}

// WithKeep drops documents failing the predicate from every snapshot,
// e.g. items whose expiry has passed.
func WithKeep(keep func(Document) bool) StreamOption {
	return func(o *streamOptions) { o.keep = keep }
}

// WithSort orders every snapshot by the given comparison.
func WithSort(less func(a, b Document) bool) StreamOption {
	return func(o *streamOptions) { o.less = less }
}

// Stream adapts a collection's change notifications into an ordered,
// cancellable sequence of snapshots. Delivery is latest-only: a slow
// consumer sees the newest snapshot, never a queue of stale ones.
type Stream struct {
	ch     chan Snapshot
	cancel context.CancelFunc

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// Subscribe runs the query once, emits the initial snapshot, then
// re-runs it on every change notification. The stream ends when ctx is
// cancelled, Close is called, or the notification layer fails; a failure
// is terminal and left for the caller's retry policy.
func Subscribe(ctx context.Context, store Store, collection string, filters []Filter, opts ...StreamOption) (*Stream, error) {
	var options streamOptions
	for _, opt := range opts {
		opt(&options)
	}

	streamCtx, cancel := context.WithCancel(ctx)

	watcher, err := store.Watch(streamCtx, collection)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", collection, err)
	}

	s := &Stream{
		ch:     make(chan Snapshot, 1),
		cancel: cancel,
	}

	go s.run(streamCtx, store, collection, filters, options, watcher)

	return s, nil
}

// Snapshots yields result sets until the stream closes. After the channel
// closes, Err reports whether the close was a failure.
func (s *Stream) Snapshots() <-chan Snapshot { return s.ch }

// Err returns the terminal error, or nil after a plain cancellation.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close detaches from the notification source. Idempotent; no snapshot is
// emitted after Close returns, even racing a concurrent stream error.
func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *Stream) run(ctx context.Context, store Store, collection string, filters []Filter, options streamOptions, watcher Watcher) {
	defer close(s.ch)
	defer watcher.Close()
	defer s.cancel()

	emit := func() bool {
		docs, err := store.Query(ctx, collection, filters...)
		if err != nil {
			if ctx.Err() == nil {
				s.fail(err)
			}
			return false
		}
		if ctx.Err() != nil {
			return false
		}
		s.send(ctx, transform(docs, options))
		return true
	}

	if !emit() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-watcher.Events():
			if !ok {
				if err := watcher.Err(); err != nil {
					s.fail(err)
				}
				return
			}
			if !emit() {
				return
			}
		}
	}
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// send conflates: if the consumer has not taken the previous snapshot,
// it is replaced by the newer one. Cancellation wins over a pending
// send so no snapshot lands in the buffer after detach.
func (s *Stream) send(ctx context.Context, snap Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-ctx.Done():
			return
		case s.ch <- snap:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func transform(docs []Document, options streamOptions) Snapshot {
	out := docs
	if options.keep != nil {
		out = out[:0:0]
		for _, doc := range docs {
			if options.keep(doc) {
				out = append(out, doc)
			}
		}
	}
	if options.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return options.less(out[i], out[j]) })
	}
	return Snapshot(out)
}
