package entity

import (
	"time"
)

// Collection names of the backing document store. Field shapes under each
// collection are part of the wire contract shared with other clients.
const (
	CollectionBookings      = "bookings"
	CollectionServices      = "services"
	CollectionFoodOrders    = "food_orders"
	CollectionPayments      = "payments"
	CollectionTickets       = "tickets"
	CollectionTicketTypes   = "ticket_types"
	CollectionEvents        = "events"
	CollectionChatRooms     = "chat_rooms"
	CollectionMessages      = "messages"
	CollectionRatings       = "ratings"
	CollectionAnnouncements = "announcements"
	CollectionScanners      = "scanners"
)

// Base carries the document identity and audit timestamps. The ID is the
// document key, not part of the stored payload.
type Base struct {
	ID        string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BaseSimple is for append-only documents that are never updated.
type BaseSimple struct {
	ID        string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
