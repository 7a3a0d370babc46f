package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/dto/request"
	"sokoni/internal/usecase"
	"sokoni/pkg/utils"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		utils.ResponseNotFound(w, err.Error())
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// AcceptBooking handles PUT /api/bookings/{id}/accept (protected, provider)
func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.AcceptBooking)
}

// RejectBooking handles PUT /api/bookings/{id}/reject (protected, provider)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.RejectBooking)
}

// CompleteBooking handles PUT /api/bookings/{id}/complete (protected, provider)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteBooking)
}

// StreamCustomerBookings handles GET /api/user/bookings/stream (protected, SSE)
func (h *BookingHandler) StreamCustomerBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchCustomerBookings(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open booking stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}

// StreamProviderBookings handles GET /api/provider/bookings/stream (protected, SSE)
func (h *BookingHandler) StreamProviderBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchProviderBookings(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open booking stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, providerID, bookingID string) error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := apply(r.Context(), userID, bookingID); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
