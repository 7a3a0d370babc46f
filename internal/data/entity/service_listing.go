package entity

// ServiceListing is a bookable service offered on the marketplace.
// Invariant: isAvailable=false implies bookedBy is set, isAvailable=true
// implies bookedBy is absent. The flag flips on booking creation and on
// rejection.
type ServiceListing struct {
	Base
	ProviderID  string  `json:"providerId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
	BookedBy    string  `json:"bookedBy,omitempty"`
}
