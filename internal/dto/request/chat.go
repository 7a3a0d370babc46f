package request

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,max=4000"`
}

type RateServiceRequest struct {
	ServiceID string  `json:"serviceId" validate:"required"`
	Score     float64 `json:"score" validate:"required,gte=1,lte=5"`
	Comment   string  `json:"comment" validate:"max=2000"`
}

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=160"`
	Description string `json:"description" validate:"max=4000"`
	Venue       string `json:"venue"`
	StartsAt    string `json:"startsAt" validate:"required"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type CreateAnnouncementRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,max=4000"`
	ExpiresAt string `json:"expiresAt"`
}
