package repository

import (
	"context"
	"errors"
	"fmt"

	"sokoni/internal/data/entity"
	"sokoni/internal/docstore"

	"go.uber.org/zap"
)

type ChatRepository interface {
	// CreateRoom writes the room only if the derived id is absent and
	// reports whether this call created it. Concurrent creators target
	// the identical id, so exactly one write wins.
	CreateRoom(ctx context.Context, room *entity.ChatRoom) (bool, error)

	FindRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error)
	UpdateRoomOnMessage(ctx context.Context, room *entity.ChatRoom) error
	ResetUnread(ctx context.Context, roomID, userID string) error

	CreateMessage(ctx context.Context, msg *entity.Message) error
	UnreadMessages(ctx context.Context, roomID, receiverID string) ([]*entity.Message, error)
	MarkMessageRead(ctx context.Context, messageID string) error

	WatchRooms(ctx context.Context, userID string) (*docstore.Stream, error)
	WatchMessages(ctx context.Context, roomID string) (*docstore.Stream, error)
}

type chatRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewChatRepository(store docstore.Store, log *zap.Logger) ChatRepository {
	return &chatRepository{
		store: store,
		log:   log.With(zap.String("repository", "chat")),
	}
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *entity.ChatRoom) (bool, error) {
	data, err := docstore.Encode(room)
	if err != nil {
		return false, fmt.Errorf("encode chat room: %w", err)
	}

	created, err := r.store.Create(ctx, entity.CollectionChatRooms, room.ID, data)
	if err != nil {
		r.log.Error("Failed to create chat room",
			zap.Error(err),
			zap.String("room_id", room.ID),
		)
		return false, fmt.Errorf("create chat room %s: %w", room.ID, err)
	}

	return created, nil
}

func (r *chatRepository) FindRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	doc, err := r.store.Get(ctx, entity.CollectionChatRooms, roomID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find chat room",
			zap.Error(err),
			zap.String("room_id", roomID),
		)
		return nil, fmt.Errorf("find chat room %s: %w", roomID, err)
	}

	var room entity.ChatRoom
	if err := doc.Decode(&room); err != nil {
		return nil, fmt.Errorf("decode chat room %s: %w", roomID, err)
	}
	room.ID = doc.ID
	return &room, nil
}

func (r *chatRepository) UpdateRoomOnMessage(ctx context.Context, room *entity.ChatRoom) error {
	err := r.store.Update(ctx, entity.CollectionChatRooms, room.ID, map[string]any{
		"lastMessage":         room.LastMessage,
		"lastMessageTime":     room.LastMessageTime.UTC(),
		"lastMessageSenderId": room.LastMessageSenderID,
		"unreadCount":         room.UnreadCount,
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("chat room %s not found", room.ID)
	}
	if err != nil {
		r.log.Error("Failed to update chat room",
			zap.Error(err),
			zap.String("room_id", room.ID),
		)
		return fmt.Errorf("update chat room %s: %w", room.ID, err)
	}

	return nil
}

func (r *chatRepository) ResetUnread(ctx context.Context, roomID, userID string) error {
	room, err := r.FindRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("chat room %s not found", roomID)
	}

	if room.UnreadCount == nil {
		room.UnreadCount = make(map[string]int)
	}
	room.UnreadCount[userID] = 0

	err = r.store.Update(ctx, entity.CollectionChatRooms, roomID, map[string]any{
		"unreadCount": room.UnreadCount,
	})
	if err != nil {
		r.log.Error("Failed to reset unread count",
			zap.Error(err),
			zap.String("room_id", roomID),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("reset unread for %s in room %s: %w", userID, roomID, err)
	}

	return nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *entity.Message) error {
	data, err := docstore.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if err := r.store.Set(ctx, entity.CollectionMessages, msg.ID, data); err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("message_id", msg.ID),
			zap.String("room_id", msg.ChatRoomID),
		)
		return fmt.Errorf("create message %s: %w", msg.ID, err)
	}

	return nil
}

func (r *chatRepository) UnreadMessages(ctx context.Context, roomID, receiverID string) ([]*entity.Message, error) {
	docs, err := r.store.Query(ctx, entity.CollectionMessages,
		docstore.Where("chatRoomId", docstore.OpEq, roomID),
		docstore.Where("receiverId", docstore.OpEq, receiverID),
		docstore.Where("isRead", docstore.OpEq, false),
	)
	if err != nil {
		r.log.Error("Failed to list unread messages",
			zap.Error(err),
			zap.String("room_id", roomID),
		)
		return nil, fmt.Errorf("list unread messages in %s: %w", roomID, err)
	}

	msgs := make([]*entity.Message, 0, len(docs))
	for _, doc := range docs {
		var msg entity.Message
		if err := doc.Decode(&msg); err != nil {
			return nil, fmt.Errorf("decode message %s: %w", doc.ID, err)
		}
		msg.ID = doc.ID
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

func (r *chatRepository) MarkMessageRead(ctx context.Context, messageID string) error {
	err := r.store.Update(ctx, entity.CollectionMessages, messageID, map[string]any{
		"isRead": true,
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("message %s not found", messageID)
	}
	if err != nil {
		r.log.Error("Failed to mark message read",
			zap.Error(err),
			zap.String("message_id", messageID),
		)
		return fmt.Errorf("mark message %s read: %w", messageID, err)
	}

	return nil
}

func (r *chatRepository) WatchRooms(ctx context.Context, userID string) (*docstore.Stream, error) {
	// unread rooms first, then most recent activity
	unreadFirst := func(a, b docstore.Document) bool {
		au, bu := unreadFor(a, userID) > 0, unreadFor(b, userID) > 0
		if au != bu {
			return au
		}
		at, _ := a.Data["lastMessageTime"].(string)
		bt, _ := b.Data["lastMessageTime"].(string)
		return at > bt
	}

	return docstore.Subscribe(ctx, r.store, entity.CollectionChatRooms,
		[]docstore.Filter{docstore.Where("participants", docstore.OpContains, userID)},
		docstore.WithSort(unreadFirst),
	)
}

func (r *chatRepository) WatchMessages(ctx context.Context, roomID string) (*docstore.Stream, error) {
	oldestFirst := func(a, b docstore.Document) bool {
		at, _ := a.Data["timestamp"].(string)
		bt, _ := b.Data["timestamp"].(string)
		return at < bt
	}

	return docstore.Subscribe(ctx, r.store, entity.CollectionMessages,
		[]docstore.Filter{docstore.Where("chatRoomId", docstore.OpEq, roomID)},
		docstore.WithSort(oldestFirst),
	)
}

func unreadFor(doc docstore.Document, userID string) float64 {
	counts, ok := doc.Data["unreadCount"].(map[string]any)
	if !ok {
		return 0
	}
	n, _ := counts[userID].(float64)
	return n
}
