package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/dto/request"
	"sokoni/internal/usecase"
	"sokoni/pkg/utils"
)

type OrderHandler struct {
	service usecase.FoodOrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.FoodOrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// CreateOrder handles POST /api/orders (protected)
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateFoodOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// GetOrder handles GET /api/orders/{id} (protected)
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseNotFound(w, err.Error())
		return
	}
	utils.ResponseSuccess(w, "success", order)
}

// ConfirmPayment handles PUT /api/orders/{id}/confirm-payment (protected, cook)
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmOrderPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ConfirmPayment(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// UpdateStatus handles PUT /api/orders/{id}/status (protected, cook)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	err := h.service.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), entity.FoodOrderStatus(req.Status))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CancelOrder handles PUT /api/orders/{id}/cancel (protected, customer)
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.CancelOrder(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// StreamCustomerOrders handles GET /api/user/orders/stream (protected, SSE)
func (h *OrderHandler) StreamCustomerOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchCustomerOrders(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open order stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}

// StreamCookOrders handles GET /api/cook/orders/stream (protected, SSE)
func (h *OrderHandler) StreamCookOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchCookOrders(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open order stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}
