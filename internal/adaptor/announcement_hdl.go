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

type AnnouncementHandler struct {
	service usecase.AnnouncementService
	log     *zap.Logger
}

func NewAnnouncementHandler(service usecase.AnnouncementService, log *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		log:     log.With(zap.String("handler", "announcement")),
	}
}

// CreateAnnouncement handles POST /api/announcements (protected)
func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ann, err := h.service.Create(r.Context(), &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", ann)
}

// MarkRead handles PUT /api/announcements/{id}/read (protected)
func (h *AnnouncementHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// StreamAnnouncements handles GET /api/announcements/stream (protected,
// SSE). Expired announcements are dropped; unread come first.
func (h *AnnouncementHandler) StreamAnnouncements(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchForUser(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open announcement stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}
