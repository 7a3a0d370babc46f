package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, ann *entity.Announcement) error
	FindByID(ctx context.Context, id string) (*entity.Announcement, error)
	MarkRead(ctx context.Context, id, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	// WatchForUser drops expired announcements and orders unread-for-U
	// first, then newest.
	WatchForUser(ctx context.Context, userID string) (*docstore.Stream, error)
}

type announcementRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewAnnouncementRepository(store docstore.Store, log *zap.Logger) AnnouncementRepository {
	return &announcementRepository{
		store: store,
		log:   log.With(zap.String("repository", "announcement")),
	}
}

func (r *announcementRepository) Create(ctx context.Context, ann *entity.Announcement) error {
	if ann.ReadBy == nil {
		ann.ReadBy = []string{}
	}

	data, err := docstore.Encode(ann)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionAnnouncements, ann.ID, data); err != nil {
		r.log.Error("Failed to create announcement",
			zap.Error(err),
			zap.String("announcement_id", ann.ID),
		)
		return fmt.Errorf("create announcement %s: %w", ann.ID, err)
	}

	return nil
}

func (r *announcementRepository) FindByID(ctx context.Context, id string) (*entity.Announcement, error) {
	doc, err := r.store.Get(ctx, entity.CollectionAnnouncements, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find announcement",
			zap.Error(err),
			zap.String("announcement_id", id),
		)
		return nil, fmt.Errorf("find announcement %s: %w", id, err)
	}

	var ann entity.Announcement
	if err := doc.Decode(&ann); err != nil {
		return nil, fmt.Errorf("decode announcement %s: %w", id, err)
	}
	ann.ID = doc.ID
	return &ann, nil
}

func (r *announcementRepository) MarkRead(ctx context.Context, id, userID string) error {
	ann, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ann == nil {
		return fmt.Errorf("announcement %s not found", id)
	}
	if ann.ReadByUser(userID) {
		return nil
	}

	err = r.store.Update(ctx, entity.CollectionAnnouncements, id, map[string]any{
		"readBy": append(ann.ReadBy, userID),
	})
	if err != nil {
		r.log.Error("Failed to mark announcement read",
			zap.Error(err),
			zap.String("announcement_id", id),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("mark announcement %s read: %w", id, err)
	}

	return nil
}

func (r *announcementRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	docs, err := r.store.Query(ctx, entity.CollectionAnnouncements,
		docstore.Where("expiresAt", docstore.OpLte, now.UTC()),
	)
	if err != nil {
		return 0, fmt.Errorf("query expired announcements: %w", err)
	}

	deleted := 0
	for _, doc := range docs {
		if err := r.store.Delete(ctx, entity.CollectionAnnouncements, doc.ID); err != nil {
			r.log.Warn("Failed to delete expired announcement",
				zap.Error(err),
				zap.String("announcement_id", doc.ID),
			)
			continue
		}
		deleted++
	}
	return deleted, nil
}

func (r *announcementRepository) WatchForUser(ctx context.Context, userID string) (*docstore.Stream, error) {
	notExpired := func(doc docstore.Document) bool {
		raw, ok := doc.Data["expiresAt"].(string)
		if !ok {
			return true
		}
		exp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return true
		}
		return exp.After(time.Now())
	}

	unreadFirst := func(a, b docstore.Document) bool {
		au, bu := readBy(a, userID), readBy(b, userID)
		if au != bu {
			return !au
		}
		at, _ := a.Data["createdAt"].(string)
		bt, _ := b.Data["createdAt"].(string)
		return at > bt
	}

	return docstore.Subscribe(ctx, r.store, entity.CollectionAnnouncements, nil,
		docstore.WithKeep(notExpired),
		docstore.WithSort(unreadFirst),
	)
}

func readBy(doc docstore.Document, userID string) bool {
	arr, ok := doc.Data["readBy"].([]any)
	if !ok {
		return false
	}
	for _, el := range arr {
		if el == userID {
			return true
		}
	}
	return false
}
