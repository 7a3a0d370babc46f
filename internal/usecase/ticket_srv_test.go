package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
)

func TestIssueTicketIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewTicketService(repo, zap.NewNop())

	id1, err := svc.IssueTicket(context.Background(), "pay-1", "event-1", "type-1", "user-1")
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	id2, err := svc.IssueTicket(context.Background(), "pay-1", "event-1", "type-1", "user-1")
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if id1 != id2 || id1 != "pay-1" {
		t.Fatalf("ticket ids = %s, %s, want pay-1 twice", id1, id2)
	}

	count, err := repo.Ticket.CountByEvent(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("event has %d tickets after double issue, want 1", count)
	}

	// the winner's qr code survives the retry
	ticket, err := repo.Ticket.FindByID(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("find ticket: %v", err)
	}
	if ticket.QRCode == "" {
		t.Fatalf("issued ticket has no qr code")
	}
}

func TestRedeemLifecycle(t *testing.T) {
	repo := newTestRepo()
	svc := NewTicketService(repo, zap.NewNop())

	if _, err := svc.IssueTicket(context.Background(), "pay-1", "event-1", "type-1", "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	ticket, err := repo.Ticket.FindByID(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("find ticket: %v", err)
	}

	first := svc.Redeem(context.Background(), ticket.QRCode, "scanner-1")
	if !first.Success {
		t.Fatalf("first redeem failed: %s", first.Message)
	}

	second := svc.Redeem(context.Background(), ticket.QRCode, "scanner-1")
	if second.Success {
		t.Fatalf("second redeem of the same code succeeded")
	}

	unknown := svc.Redeem(context.Background(), "QR_nope", "scanner-1")
	if unknown.Success {
		t.Fatalf("unknown code redeemed")
	}

	used, err := repo.Ticket.FindByID(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("find ticket: %v", err)
	}
	if used.Status != entity.TicketStatusUsed || used.UsedAt == nil {
		t.Fatalf("ticket not marked used: status=%s usedAt=%v", used.Status, used.UsedAt)
	}
}

func TestStatsStream(t *testing.T) {
	repo := newTestRepo()
	svc := NewTicketService(repo, zap.NewNop())

	err := svc.CreateType(context.Background(), &entity.TicketType{
		BaseSimple: entity.BaseSimple{ID: "type-1", CreatedAt: time.Now().UTC()},
		EventID:    "event-1",
		Name:       "Regular",
		Price:      500,
		Quantity:   2,
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}

	stream, err := svc.Stats(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	defer stream.Close()

	var last entity.TicketStats
	waitFor(t, "initial stats", func() bool {
		select {
		case last = <-stream.Stats():
			return last.Total == 2 && last.Sold == 0 && last.Remaining == 2
		default:
			return false
		}
	})

	for i, pay := range []string{"pay-1", "pay-2", "pay-3"} {
		if _, err := svc.IssueTicket(context.Background(), pay, "event-1", "type-1", "user-1"); err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
	}

	// sold overtakes total; remaining goes negative, not clamped
	waitFor(t, "oversold stats", func() bool {
		select {
		case last = <-stream.Stats():
			return last.Total == 2 && last.Sold == 3 && last.Remaining == -1
		default:
			return false
		}
	})
}

func TestQRImage(t *testing.T) {
	repo := newTestRepo()
	svc := NewTicketService(repo, zap.NewNop())

	if _, err := svc.IssueTicket(context.Background(), "pay-1", "event-1", "type-1", "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	png, err := svc.QRImage(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("qr image: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("empty png")
	}

	if _, err := svc.QRImage(context.Background(), "missing"); err == nil {
		t.Fatalf("qr image for missing ticket succeeded")
	}
}
