package response

import (
	"time"

	"sokoni/internal/data/entity"
)

type BookingResponse struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	CustomerID string    `json:"customerId"`
	ProviderID string    `json:"providerId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		ServiceID:  b.ServiceID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type FoodOrderResponse struct {
	ID                 string             `json:"id"`
	OrderRef           string             `json:"orderRef"`
	CustomerID         string             `json:"customerId"`
	CookID             string             `json:"cookId"`
	Items              []entity.OrderItem `json:"items"`
	TotalAmount        float64            `json:"totalAmount"`
	Status             string             `json:"status"`
	PaymentReceived    bool               `json:"paymentReceived"`
	PaymentConfirmedAt *time.Time         `json:"paymentConfirmedAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
}

func FoodOrderToResponse(o *entity.FoodOrder) FoodOrderResponse {
	return FoodOrderResponse{
		ID:                 o.ID,
		OrderRef:           o.OrderRef,
		CustomerID:         o.CustomerID,
		CookID:             o.CookID,
		Items:              o.Items,
		TotalAmount:        o.TotalAmount,
		Status:             string(o.Status),
		PaymentReceived:    o.PaymentReceived,
		PaymentConfirmedAt: o.PaymentConfirmedAt,
		CreatedAt:          o.CreatedAt,
	}
}

type PayResponse struct {
	PaymentID   string `json:"paymentId"`
	CheckoutURL string `json:"checkoutUrl"`
}

type ScanResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TicketResponse struct {
	ID           string     `json:"id"`
	EventID      string     `json:"eventId"`
	TicketTypeID string     `json:"ticketTypeId"`
	QRCode       string     `json:"qrCode"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
}

func TicketToResponse(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		EventID:      t.EventID,
		TicketTypeID: t.TicketTypeID,
		QRCode:       t.QRCode,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		UsedAt:       t.UsedAt,
	}
}

type ChatRoomResponse struct {
	ID                  string            `json:"id"`
	Participants        []string          `json:"participants"`
	ParticipantNames    map[string]string `json:"participantNames"`
	LastMessage         string            `json:"lastMessage"`
	LastMessageTime     time.Time         `json:"lastMessageTime"`
	LastMessageSenderID string            `json:"lastMessageSenderId,omitempty"`
	UnreadCount         map[string]int    `json:"unreadCount"`
}

func ChatRoomToResponse(r *entity.ChatRoom) ChatRoomResponse {
	return ChatRoomResponse{
		ID:                  r.ID,
		Participants:        r.Participants,
		ParticipantNames:    r.ParticipantNames,
		LastMessage:         r.LastMessage,
		LastMessageTime:     r.LastMessageTime,
		LastMessageSenderID: r.LastMessageSenderID,
		UnreadCount:         r.UnreadCount,
	}
}

type MessageResponse struct {
	ID         string    `json:"id"`
	ChatRoomID string    `json:"chatRoomId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

func MessageToResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ChatRoomID: m.ChatRoomID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Timestamp:  m.Timestamp,
		IsRead:     m.IsRead,
	}
}
