package request

type CreateBookingRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
}

type CreateServiceRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gte=0"`
}
