package entity

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
)

// CanTransition reports whether a booking may move to the target status.
// Bookings are never deleted; rejected and completed are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusAccepted || to == BookingStatusRejected
	case BookingStatusAccepted:
		return to == BookingStatusCompleted
	default:
		return false
	}
}

type Booking struct {
	Base
	ServiceID  string        `json:"serviceId"`
	CustomerID string        `json:"customerId"`
	ProviderID string        `json:"providerId"`
	Status     BookingStatus `json:"status"`
}
