package entity

import (
	"strings"
	"time"
)

// ChatRoomID derives the deterministic room identity for a participant
// pair: the lexicographically smaller id first, joined with "_". The same
// room id results regardless of argument order.
func ChatRoomID(userA, userB string) string {
	if strings.Compare(userA, userB) <= 0 {
		return userA + "_" + userB
	}
	return userB + "_" + userA
}

// ChatRoom exists at most once per unordered participant pair; the
// document id is the derived pair id.
type ChatRoom struct {
	BaseSimple
	Participants        []string          `json:"participants"`
	ParticipantNames    map[string]string `json:"participantNames"`
	ParticipantPhotos   map[string]string `json:"participantPhotos,omitempty"`
	LastMessage         string            `json:"lastMessage"`
	LastMessageTime     time.Time         `json:"lastMessageTime"`
	LastMessageSenderID string            `json:"lastMessageSenderId,omitempty"`
	UnreadCount         map[string]int    `json:"unreadCount"`
}

// Other returns the participant that is not userID.
func (r *ChatRoom) Other(userID string) string {
	for _, p := range r.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

type Message struct {
	BaseSimple
	ChatRoomID string    `json:"chatRoomId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}
