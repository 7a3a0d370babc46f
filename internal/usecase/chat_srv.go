package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/dto/request"
	"sokoni/internal/dto/response"
	"sokoni/pkg/utils"
)

type ChatService interface {
	// GetOrCreateRoom resolves the room for a participant pair. The room
	// id is derived from the pair, so concurrent resolvers of the same
	// pair end up in the same room.
	GetOrCreateRoom(ctx context.Context, userID, userName, otherID, otherName string) (*response.ChatRoomResponse, error)

	SendMessage(ctx context.Context, senderID, senderName string, req *request.SendMessageRequest) (*response.MessageResponse, error)

	// MarkRead zeroes the reader's unread counter on the room and flags
	// their pending messages read.
	MarkRead(ctx context.Context, roomID, userID string) error

	WatchRooms(ctx context.Context, userID string) (*docstore.Stream, error)
	WatchMessages(ctx context.Context, roomID string) (*docstore.Stream, error)
}

type chatService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewChatService(repo *repository.Repository, log *zap.Logger) ChatService {
	return &chatService{
		repo: repo,
		log:  log.With(zap.String("service", "chat")),
	}
}

func (s *chatService) GetOrCreateRoom(ctx context.Context, userID, userName, otherID, otherName string) (*response.ChatRoomResponse, error) {
	if userID == otherID {
		return nil, fmt.Errorf("cannot open a chat with yourself")
	}

	roomID := entity.ChatRoomID(userID, otherID)

	room, err := s.repo.Chat.FindRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", roomID, err)
	}
	if room == nil {
		room = s.newRoom(roomID, userID, userName, otherID, otherName)
		created, err := s.repo.Chat.CreateRoom(ctx, room)
		if err != nil {
			return nil, fmt.Errorf("create room %s: %w", roomID, err)
		}
		if !created {
			// lost the race; the winner's room is authoritative
			room, err = s.repo.Chat.FindRoom(ctx, roomID)
			if err != nil || room == nil {
				return nil, fmt.Errorf("room %s vanished after create race", roomID)
			}
		} else {
			s.log.Info("Chat room created", zap.String("room_id", roomID))
		}
	}

	resp := response.ChatRoomToResponse(room)
	return &resp, nil
}

func (s *chatService) SendMessage(ctx context.Context, senderID, senderName string, req *request.SendMessageRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	roomID := entity.ChatRoomID(senderID, req.ReceiverID)

	room, err := s.repo.Chat.FindRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", roomID, err)
	}
	if room == nil {
		room = s.newRoom(roomID, senderID, senderName, req.ReceiverID, "")
		created, err := s.repo.Chat.CreateRoom(ctx, room)
		if err != nil {
			return nil, fmt.Errorf("create room %s: %w", roomID, err)
		}
		if !created {
			// lost the race; the winner's unread counters are authoritative
			room, err = s.repo.Chat.FindRoom(ctx, roomID)
			if err != nil || room == nil {
				return nil, fmt.Errorf("room %s vanished after create race", roomID)
			}
		}
	}

	now := time.Now().UTC()
	msg := &entity.Message{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
		},
		ChatRoomID: roomID,
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Timestamp:  now,
	}

	if err := s.repo.Chat.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	room.LastMessage = req.Content
	room.LastMessageTime = now
	room.LastMessageSenderID = senderID
	if room.UnreadCount == nil {
		room.UnreadCount = make(map[string]int)
	}
	for _, p := range room.Participants {
		if p != senderID {
			room.UnreadCount[p]++
		}
	}

	if err := s.repo.Chat.UpdateRoomOnMessage(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}

	resp := response.MessageToResponse(msg)
	return &resp, nil
}

func (s *chatService) MarkRead(ctx context.Context, roomID, userID string) error {
	if err := s.repo.Chat.ResetUnread(ctx, roomID, userID); err != nil {
		return fmt.Errorf("reset unread in %s: %w", roomID, err)
	}

	unread, err := s.repo.Chat.UnreadMessages(ctx, roomID, userID)
	if err != nil {
		return fmt.Errorf("list unread in %s: %w", roomID, err)
	}
	for _, msg := range unread {
		if err := s.repo.Chat.MarkMessageRead(ctx, msg.ID); err != nil {
			return fmt.Errorf("mark message %s read: %w", msg.ID, err)
		}
	}

	return nil
}

func (s *chatService) WatchRooms(ctx context.Context, userID string) (*docstore.Stream, error) {
	return s.repo.Chat.WatchRooms(ctx, userID)
}

func (s *chatService) WatchMessages(ctx context.Context, roomID string) (*docstore.Stream, error) {
	return s.repo.Chat.WatchMessages(ctx, roomID)
}

func (s *chatService) newRoom(roomID, userID, userName, otherID, otherName string) *entity.ChatRoom {
	names := make(map[string]string)
	if userName != "" {
		names[userID] = userName
	}
	if otherName != "" {
		names[otherID] = otherName
	}

	return &entity.ChatRoom{
		BaseSimple: entity.BaseSimple{
			ID:        roomID,
			CreatedAt: time.Now().UTC(),
		},
		Participants:     []string{userID, otherID},
		ParticipantNames: names,
		UnreadCount: map[string]int{
			userID:  0,
			otherID: 0,
		},
	}
}
