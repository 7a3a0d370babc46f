package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventCommentDecodesLegacyString(t *testing.T) {
	var c EventComment
	if err := json.Unmarshal([]byte(`"great event!"`), &c); err != nil {
		t.Fatalf("unmarshal legacy string: %v", err)
	}
	if c.Text != "great event!" {
		t.Fatalf("unexpected text %q", c.Text)
	}
	if c.AuthorName != "Unknown" {
		t.Fatalf("legacy comment must normalize author to Unknown, got %q", c.AuthorName)
	}
}

func TestEventCommentDecodesStructuredRecord(t *testing.T) {
	raw := `{"authorId":"u1","authorName":"Ama","text":"see you there","timestamp":"2026-08-01T10:00:00Z"}`

	var c EventComment
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal structured: %v", err)
	}
	if c.AuthorID != "u1" || c.AuthorName != "Ama" || c.Text != "see you there" {
		t.Fatalf("unexpected comment %+v", c)
	}
	if c.Timestamp.IsZero() {
		t.Fatalf("timestamp not decoded")
	}
}

func TestEventCommentMixedArrayNormalizes(t *testing.T) {
	raw := `["first!",{"authorId":"u2","authorName":"Kofi","text":"second","timestamp":"2026-08-01T10:00:00Z"}]`

	var comments []EventComment
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		t.Fatalf("unmarshal mixed array: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first!" || comments[1].AuthorName != "Kofi" {
		t.Fatalf("unexpected comments %+v", comments)
	}
}

func TestChatRoomIDOrderIndependent(t *testing.T) {
	if ChatRoomID("alice", "bob") != ChatRoomID("bob", "alice") {
		t.Fatalf("room id must be order-independent")
	}
	if got := ChatRoomID("bob", "alice"); got != "alice_bob" {
		t.Fatalf("expected alice_bob, got %s", got)
	}
	// equal ids still produce a stable key
	if got := ChatRoomID("x", "x"); got != "x_x" {
		t.Fatalf("expected x_x, got %s", got)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingStatusPending, BookingStatusAccepted, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusAccepted, BookingStatusCompleted, true},
		{BookingStatusAccepted, BookingStatusRejected, false},
		{BookingStatusRejected, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestAnnouncementExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(3 * time.Hour)

	if (&Announcement{ExpiresAt: &past}).Expired(now) != true {
		t.Fatalf("past expiry must report expired")
	}
	if (&Announcement{ExpiresAt: &future}).Expired(now) != false {
		t.Fatalf("future expiry must not report expired")
	}
	if (&Announcement{}).Expired(now) != false {
		t.Fatalf("nil expiry never expires")
	}
}
