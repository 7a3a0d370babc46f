package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/dto/request"
	"sokoni/internal/usecase"
	"sokoni/pkg/utils"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Pay handles POST /api/pay (protected)
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	// the checkout belongs to the caller regardless of the body
	req.UserID = userID

	resp, err := h.service.InitiateCheckout(r.Context(), &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", resp)
}

// Status handles GET /api/payment-status/{id} (protected)
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseInternalError(w, "Payment status unavailable")
		return
	}

	// mirror the aggregator's payload as-is
	utils.ResponseSuccess(w, "success", status)
}

// Confirm handles POST /api/payments/{id}/confirm. Called by the app
// after the checkout deep link returns.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.Confirm(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
