package entity

import (
	"time"
)

type TicketStatus string

const (
	TicketStatusActive TicketStatus = "active"
	TicketStatusUsed   TicketStatus = "used"
	TicketStatusVoid   TicketStatus = "void"
)

// Ticket document id doubles as the idempotency key: it equals the id of
// the successful payment it was issued for. The qrCode is a random token
// minted at issuance, never derivable from ticket fields.
type Ticket struct {
	BaseSimple
	EventID      string       `json:"eventId"`
	UserID       string       `json:"userId"`
	TicketTypeID string       `json:"ticketTypeId"`
	QRCode       string       `json:"qrCode"`
	Status       TicketStatus `json:"status"`
	UsedAt       *time.Time   `json:"usedAt,omitempty"`
}

// TicketType is one configured admission class of an event.
type TicketType struct {
	BaseSimple
	EventID  string  `json:"eventId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// TicketStats is the live total/sold/remaining view for one event.
// remaining is total - sold and is deliberately not clamped: sold can
// transiently exceed total under over-issuance.
type TicketStats struct {
	Total     int `json:"total"`
	Sold      int `json:"sold"`
	Remaining int `json:"remaining"`
}
