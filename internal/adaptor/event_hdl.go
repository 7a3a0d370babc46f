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

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// CreateEvent handles POST /api/events (protected)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// GetEvent handles GET /api/events/{id} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseNotFound(w, err.Error())
		return
	}
	utils.ResponseSuccess(w, "success", event)
}

// AddComment handles POST /api/events/{id}/comments (protected)
func (h *EventHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), userID, r.Header.Get("X-User-Name"), &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", nil)
}

// StreamEvent handles GET /api/events/{id}/stream (public, SSE). Emits
// the event document, comments included, on every change.
func (h *EventHandler) StreamEvent(w http.ResponseWriter, r *http.Request) {
	stream, err := h.service.WatchEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseInternalError(w, "Could not open event stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}
