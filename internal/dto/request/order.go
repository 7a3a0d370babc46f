package request

type OrderItemRequest struct {
	ItemID   string  `json:"itemId" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type CreateFoodOrderRequest struct {
	CookID        string             `json:"cookId" validate:"required"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string             `json:"paymentMethod"`
}

type ConfirmOrderPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}
