package request

type PayRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Phone   string  `json:"phone" validate:"required"`
	Network string  `json:"network" validate:"required"`
	UserID  string  `json:"userId" validate:"required"`
	ItemID  string  `json:"itemId" validate:"required"`

	// Set for event ticket purchases so the issuance coordinator can
	// mint the ticket once payment succeeds.
	EventID      string `json:"eventId"`
	TicketTypeID string `json:"ticketTypeId"`
}

type ConfirmPaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=success failed"`
}

type ScanTicketRequest struct {
	QRCode    string `json:"qrCode" validate:"required"`
	ScannerID string `json:"scannerId" validate:"required"`
}
