package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/dto/request"
)

func TestCreateBookingReservesService(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	resp, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if resp.Status != string(entity.BookingStatusPending) {
		t.Fatalf("new booking status = %s, want pending", resp.Status)
	}

	listing, err := repo.Service.FindByID(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("find listing: %v", err)
	}
	if listing.IsAvailable {
		t.Fatalf("listing still available after booking")
	}
	if listing.BookedBy != "customer-1" {
		t.Fatalf("listing bookedBy = %q, want customer-1", listing.BookedBy)
	}
}

func TestCreateBookingRejectsUnavailableService(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	if _, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CreateBooking(context.Background(), "customer-2", &request.CreateBookingRequest{ServiceID: "svc-1"}); err == nil {
		t.Fatalf("booking an unavailable service succeeded")
	}
}

func TestRejectBookingReleasesService(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	resp, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if err := svc.RejectBooking(context.Background(), "provider-1", resp.ID); err != nil {
		t.Fatalf("reject booking: %v", err)
	}

	listing, err := repo.Service.FindByID(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("find listing: %v", err)
	}
	if !listing.IsAvailable {
		t.Fatalf("listing not released after rejection")
	}
	if listing.BookedBy != "" {
		t.Fatalf("listing bookedBy = %q after release, want empty", listing.BookedBy)
	}

	booking, err := repo.Booking.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("find booking: %v", err)
	}
	if booking.Status != entity.BookingStatusRejected {
		t.Fatalf("booking status = %s, want rejected", booking.Status)
	}
}

func TestBookingIllegalTransitions(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	resp, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// pending cannot complete
	if err := svc.CompleteBooking(context.Background(), "provider-1", resp.ID); err == nil {
		t.Fatalf("completing a pending booking succeeded")
	}

	if err := svc.AcceptBooking(context.Background(), "provider-1", resp.ID); err != nil {
		t.Fatalf("accept booking: %v", err)
	}

	// accepted cannot reject
	if err := svc.RejectBooking(context.Background(), "provider-1", resp.ID); err == nil {
		t.Fatalf("rejecting an accepted booking succeeded")
	}

	if err := svc.CompleteBooking(context.Background(), "provider-1", resp.ID); err != nil {
		t.Fatalf("complete booking: %v", err)
	}

	// completed is terminal
	if err := svc.AcceptBooking(context.Background(), "provider-1", resp.ID); err == nil {
		t.Fatalf("accepting a completed booking succeeded")
	}
}

func TestBookingWrongProviderDenied(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	resp, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if err := svc.AcceptBooking(context.Background(), "provider-2", resp.ID); err == nil {
		t.Fatalf("foreign provider accepted the booking")
	}
}

func TestWatchCustomerBookings(t *testing.T) {
	repo := newTestRepo()
	svc := NewBookingService(repo, zap.NewNop())
	seedListing(t, repo, "svc-1", "provider-1")

	stream, err := svc.WatchCustomerBookings(context.Background(), "customer-1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stream.Close()

	// initial snapshot is empty
	snap := <-stream.Snapshots()
	if len(snap) != 0 {
		t.Fatalf("initial snapshot has %d docs, want 0", len(snap))
	}

	if _, err := svc.CreateBooking(context.Background(), "customer-1", &request.CreateBookingRequest{ServiceID: "svc-1"}); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	waitFor(t, "booking in stream", func() bool {
		select {
		case snap, ok := <-stream.Snapshots():
			return ok && len(snap) == 1
		default:
			return false
		}
	})
}
