package entity

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records one checkout with the mobile-money aggregator. At most
// one ticket is ever derived from a successful payment.
type Payment struct {
	Base
	UserID       string        `json:"userId"`
	EventID      string        `json:"eventId,omitempty"`
	TicketTypeID string        `json:"ticketTypeId,omitempty"`
	Amount       float64       `json:"amount"`
	Status       PaymentStatus `json:"status"`
	Reference    string        `json:"reference,omitempty"`
	CheckoutURL  string        `json:"checkoutUrl,omitempty"`
}
