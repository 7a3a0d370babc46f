package entity

import (
	"time"
)

type FoodOrderStatus string

const (
	FoodOrderStatusPending         FoodOrderStatus = "pending"
	FoodOrderStatusPaymentReceived FoodOrderStatus = "payment_received"
	FoodOrderStatusPreparing       FoodOrderStatus = "preparing"
	FoodOrderStatusDelivered       FoodOrderStatus = "delivered"
	FoodOrderStatusCancelled       FoodOrderStatus = "cancelled"
)

// CanTransition reports whether a food order may move to the target
// status. Delivered and cancelled are terminal.
func (s FoodOrderStatus) CanTransition(to FoodOrderStatus) bool {
	switch s {
	case FoodOrderStatusPending:
		return to == FoodOrderStatusPaymentReceived ||
			to == FoodOrderStatusPreparing ||
			to == FoodOrderStatusCancelled
	case FoodOrderStatusPaymentReceived:
		return to == FoodOrderStatusPreparing || to == FoodOrderStatusCancelled
	case FoodOrderStatusPreparing:
		return to == FoodOrderStatusDelivered
	default:
		return false
	}
}

type OrderItem struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// FoodOrder invariant: paymentReceived=true implies
// status=payment_received and paymentConfirmedAt set. The three fields
// are always written in one update.
type FoodOrder struct {
	Base
	OrderRef           string          `json:"orderRef"`
	CustomerID         string          `json:"customerId"`
	CookID             string          `json:"cookId"`
	Items              []OrderItem     `json:"items"`
	TotalAmount        float64         `json:"totalAmount"`
	Status             FoodOrderStatus `json:"status"`
	PaymentReceived    bool            `json:"paymentReceived"`
	PaymentMethod      string          `json:"paymentMethod,omitempty"`
	PaymentConfirmedAt *time.Time      `json:"paymentConfirmedAt,omitempty"`
}
