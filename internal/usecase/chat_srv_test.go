package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/dto/request"
)

func TestGetOrCreateRoomSymmetric(t *testing.T) {
	repo := newTestRepo()
	svc := NewChatService(repo, zap.NewNop())

	ab, err := svc.GetOrCreateRoom(context.Background(), "alice", "Alice", "bob", "Bob")
	if err != nil {
		t.Fatalf("resolve a,b: %v", err)
	}
	ba, err := svc.GetOrCreateRoom(context.Background(), "bob", "Bob", "alice", "Alice")
	if err != nil {
		t.Fatalf("resolve b,a: %v", err)
	}

	if ab.ID != ba.ID {
		t.Fatalf("room ids differ by argument order: %s vs %s", ab.ID, ba.ID)
	}
	if ab.ID != "alice_bob" {
		t.Fatalf("room id = %s, want alice_bob", ab.ID)
	}
}

func TestGetOrCreateRoomConcurrent(t *testing.T) {
	repo := newTestRepo()
	svc := NewChatService(repo, zap.NewNop())

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			resp, err := svc.GetOrCreateRoom(context.Background(), "alice", "Alice", "bob", "Bob")
			if err != nil {
				t.Errorf("resolver %d: %v", i, err)
				return
			}
			ids[i] = resp.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("resolver %d got room %s, resolver 0 got %s", i, ids[i], ids[0])
		}
	}
}

func TestSendMessageUpdatesRoom(t *testing.T) {
	repo := newTestRepo()
	svc := NewChatService(repo, zap.NewNop())

	if _, err := svc.GetOrCreateRoom(context.Background(), "alice", "Alice", "bob", "Bob"); err != nil {
		t.Fatalf("resolve room: %v", err)
	}

	msg, err := svc.SendMessage(context.Background(), "alice", "Alice", &request.SendMessageRequest{
		ReceiverID: "bob",
		Content:    "hey, is the sofa still available?",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ChatRoomID != "alice_bob" {
		t.Fatalf("message room = %s, want alice_bob", msg.ChatRoomID)
	}

	room, err := repo.Chat.FindRoom(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	if room.LastMessage != "hey, is the sofa still available?" {
		t.Fatalf("lastMessage = %q", room.LastMessage)
	}
	if room.LastMessageSenderID != "alice" {
		t.Fatalf("lastMessageSenderId = %s", room.LastMessageSenderID)
	}
	if room.UnreadCount["bob"] != 1 {
		t.Fatalf("bob unread = %d, want 1", room.UnreadCount["bob"])
	}
	if room.UnreadCount["alice"] != 0 {
		t.Fatalf("alice unread = %d, want 0", room.UnreadCount["alice"])
	}
}

func TestMarkReadClearsUnread(t *testing.T) {
	repo := newTestRepo()
	svc := NewChatService(repo, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := svc.SendMessage(context.Background(), "alice", "Alice", &request.SendMessageRequest{
			ReceiverID: "bob",
			Content:    "ping",
		}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	room, err := repo.Chat.FindRoom(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	if room.UnreadCount["bob"] != 3 {
		t.Fatalf("bob unread = %d, want 3", room.UnreadCount["bob"])
	}

	if err := svc.MarkRead(context.Background(), "alice_bob", "bob"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	room, err = repo.Chat.FindRoom(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	if room.UnreadCount["bob"] != 0 {
		t.Fatalf("bob unread = %d after mark read, want 0", room.UnreadCount["bob"])
	}

	unread, err := repo.Chat.UnreadMessages(context.Background(), "alice_bob", "bob")
	if err != nil {
		t.Fatalf("unread messages: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("%d messages still unread", len(unread))
	}
}

func TestSelfChatRejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewChatService(repo, zap.NewNop())

	if _, err := svc.GetOrCreateRoom(context.Background(), "alice", "Alice", "alice", "Alice"); err == nil {
		t.Fatalf("self chat room created")
	}
}

// raceCreateStore makes the chat-room create lose to a concurrent writer
// whose room document is inserted just before the create runs.
type raceCreateStore struct {
	docstore.Store
	roomID string
	winner map[string]any
	once   sync.Once
}

func (s *raceCreateStore) Create(ctx context.Context, collection, id string, data map[string]any) (bool, error) {
	if collection == entity.CollectionChatRooms && id == s.roomID {
		var lost bool
		s.once.Do(func() { lost = true })
		if lost {
			if err := s.Store.Set(ctx, collection, id, s.winner); err != nil {
				return false, err
			}
		}
	}
	return s.Store.Create(ctx, collection, id, data)
}

func TestSendMessageKeepsWinnerUnreadOnCreateRace(t *testing.T) {
	roomID := entity.ChatRoomID("alice", "bob")
	winner := &entity.ChatRoom{
		BaseSimple:   entity.BaseSimple{ID: roomID, CreatedAt: time.Now().UTC()},
		Participants: []string{"alice", "bob"},
		UnreadCount:  map[string]int{"alice": 0, "bob": 3},
	}
	data, err := docstore.Encode(winner)
	if err != nil {
		t.Fatalf("encode winner room: %v", err)
	}

	store := &raceCreateStore{Store: docstore.NewMemoryStore(), roomID: roomID, winner: data}
	repo := repository.NewRepository(store, zap.NewNop())
	svc := NewChatService(repo, zap.NewNop())

	if _, err := svc.SendMessage(context.Background(), "alice", "Alice", &request.SendMessageRequest{
		ReceiverID: "bob",
		Content:    "hello",
	}); err != nil {
		t.Fatalf("send message: %v", err)
	}

	room, err := repo.Chat.FindRoom(context.Background(), roomID)
	if err != nil || room == nil {
		t.Fatalf("find room after send: %v", err)
	}
	if got := room.UnreadCount["bob"]; got != 4 {
		t.Fatalf("bob unread = %d, want 4 (winner's 3 plus the new message)", got)
	}
	if room.LastMessage != "hello" {
		t.Fatalf("lastMessage = %q, want hello", room.LastMessage)
	}
}
