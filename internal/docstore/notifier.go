package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sokoni/pkg/utils"
)

// Notifier fans document change events out to every attached watcher,
// across instances, over redis pub/sub. One channel per collection.
type Notifier struct {
	rdb    *goredis.Client
	prefix string
	log    *zap.Logger
}

func NewNotifier(config utils.RedisConfig, log *zap.Logger) (*Notifier, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := config.ChannelPrefix
	if prefix == "" {
		prefix = "docstore"
	}

	return &Notifier{
		rdb:    rdb,
		prefix: prefix,
		log:    log.With(zap.String("component", "notifier")),
	}, nil
}

func (n *Notifier) channel(collection string) string {
	return n.prefix + ":" + collection
}

// Publish announces a document change to every watcher of the collection.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	if err := n.rdb.Publish(ctx, n.channel(ev.Collection), raw).Err(); err != nil {
		return fmt.Errorf("publish change event %s/%s: %w", ev.Collection, ev.ID, err)
	}
	return nil
}

// Watch attaches a watcher to one collection's change channel.
func (n *Notifier) Watch(ctx context.Context, collection string) (Watcher, error) {
	sub := n.rdb.Subscribe(ctx, n.channel(collection))

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", collection, err)
	}

	w := &redisWatcher{
		events: make(chan Event, 16),
		sub:    sub,
	}

	go func() {
		defer close(w.events)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				w.close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					// unexpected unless Close was called first
					if !w.closed.Load() {
						w.setErr(fmt.Errorf("notification stream %s closed", collection))
					}
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					n.log.Warn("bad change payload", zap.Error(err), zap.String("collection", collection))
					continue
				}
				select {
				case w.events <- ev:
				case <-ctx.Done():
					w.close()
					return
				}
			}
		}
	}()

	return w, nil
}

func (n *Notifier) Close() error {
	return n.rdb.Close()
}

type redisWatcher struct {
	events chan Event
	sub    *goredis.PubSub

	mu        sync.Mutex
	err       error
	closed    atomic.Bool
	closeOnce sync.Once
}

func (w *redisWatcher) Events() <-chan Event { return w.events }

func (w *redisWatcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *redisWatcher) setErr(err error) {
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
	w.close()
}

func (w *redisWatcher) close() {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		_ = w.sub.Close()
	})
}

func (w *redisWatcher) Close() { w.close() }
