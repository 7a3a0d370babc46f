package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/dto/request"
	"sokoni/internal/usecase"
	"sokoni/pkg/utils"
)

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// ScanTicket handles POST /scan-ticket (scanner auth)
func (h *TicketHandler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	scannerID, ok := utils.GetScannerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Scanner authentication required")
		return
	}

	var req request.ScanTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.QRCode == "" {
		utils.ResponseBadRequest(w, "qrCode is required", nil)
		return
	}

	// the redeem result is the response body itself, not wrapped in the
	// usual envelope: scanning devices parse {success, message} directly
	result := h.service.Redeem(r.Context(), req.QRCode, scannerID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.Error("Scan response write failed", zap.Error(err))
	}
}

// UserTickets handles GET /api/user/tickets (protected)
func (h *TicketHandler) UserTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	tickets, err := h.service.UserTickets(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not load tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// QRImage handles GET /api/tickets/{id}/qr.png (protected)
func (h *TicketHandler) QRImage(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.QRImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseNotFound(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// CreateTicketType handles POST /api/events/{id}/ticket-types (protected, host)
func (h *TicketHandler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Quantity < 0 {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	tt := &entity.TicketType{
		BaseSimple: entity.BaseSimple{CreatedAt: time.Now().UTC()},
		EventID:    eventID,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
	}
	if err := h.service.CreateType(r.Context(), tt); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", tt)
}

// RegisterScanner handles POST /api/scanners (protected). The response
// carries the device key exactly once; only its hash is kept.
func (h *TicketHandler) RegisterScanner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		EventID string `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	scanner, key, err := h.service.RegisterScanner(r.Context(), req.Name, req.EventID)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", map[string]any{
		"scannerId": scanner.ID,
		"name":      scanner.Name,
		"eventId":   scanner.EventID,
		"deviceKey": key,
	})
}

// StreamStats handles GET /api/events/{id}/ticket-stats (public, SSE)
func (h *TicketHandler) StreamStats(w http.ResponseWriter, r *http.Request) {
	stream, err := h.service.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseInternalError(w, "Could not open stats stream")
		return
	}
	defer stream.Close()

	streamJSON(w, r, h.log, stream.Stats(), nil)
}
