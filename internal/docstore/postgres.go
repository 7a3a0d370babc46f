package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sokoni/pkg/database"
)

// PostgresStore keeps documents in one JSONB-backed table and publishes a
// change notification after every successful write. Equality filters are
// pushed into SQL via JSONB containment; other operators are applied on
// the result in memory.
type PostgresStore struct {
	db       database.PgxIface
	notifier *Notifier
	log      *zap.Logger
}

func NewPostgresStore(db database.PgxIface, notifier *Notifier, log *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:       db,
		notifier: notifier,
		log:      log.With(zap.String("component", "docstore")),
	}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	err := s.db.QueryRow(ctx, query, collection, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("Failed to get document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc := Document{ID: id}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET data = $3, updated_at = $4
	`

	_, err = s.db.Exec(ctx, query, collection, id, raw, time.Now())
	if err != nil {
		s.log.Error("Failed to set document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	s.publish(ctx, Event{Collection: collection, ID: id, Op: OpSet})
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, collection, id string, data map[string]any) (bool, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO NOTHING
	`

	tag, err := s.db.Exec(ctx, query, collection, id, raw, time.Now())
	if err != nil {
		s.log.Error("Failed to create document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return false, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}

	created := tag.RowsAffected() > 0
	if created {
		s.publish(ctx, Event{Collection: collection, ID: id, Op: OpSet})
	}
	return created, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	merge := make(map[string]any, len(fields))
	remove := []string{}
	for k, v := range fields {
		if v == nil {
			remove = append(remove, k)
		} else {
			merge[k] = v
		}
	}

	raw, err := json.Marshal(merge)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	// One statement, so the multi-field merge is atomic.
	query := `
		UPDATE documents SET data = (data - $3::text[]) || $4::jsonb, updated_at = $5
		WHERE collection = $1 AND id = $2
	`

	tag, err := s.db.Exec(ctx, query, collection, id, remove, raw, time.Now())
	if err != nil {
		s.log.Error("Failed to update document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.publish(ctx, Event{Collection: collection, ID: id, Op: OpSet})
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	tag, err := s.db.Exec(ctx, query, collection, id)
	if err != nil {
		s.log.Error("Failed to delete document",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("id", id),
		)
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	if tag.RowsAffected() > 0 {
		s.publish(ctx, Event{Collection: collection, ID: id, Op: OpDelete})
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	eq, rest := splitEqFilters(filters)

	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []any{collection}
	if len(eq) > 0 {
		raw, err := json.Marshal(eq)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		query += ` AND data @> $2::jsonb`
		args = append(args, raw)
	}
	query += ` ORDER BY updated_at`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.log.Error("Failed to query collection",
			zap.Error(err),
			zap.String("collection", collection),
		)
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var raw []byte
		if err := rows.Scan(&doc.ID, &raw); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
		if Matches(doc, rest) {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	docs, err := s.Query(ctx, collection, filters...)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *PostgresStore) Watch(ctx context.Context, collection string) (Watcher, error) {
	return s.notifier.Watch(ctx, collection)
}

// publish is best-effort: the write already committed, and watchers
// requery on the next event anyway.
func (s *PostgresStore) publish(ctx context.Context, ev Event) {
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.log.Warn("Failed to publish change event",
			zap.Error(err),
			zap.String("collection", ev.Collection),
			zap.String("id", ev.ID),
		)
	}
}

func splitEqFilters(filters []Filter) (map[string]any, []Filter) {
	eq := make(map[string]any)
	var rest []Filter
	for _, f := range filters {
		if f.Op == OpEq {
			eq[f.Field] = f.Value
		} else {
			rest = append(rest, f)
		}
	}
	return eq, rest
}
