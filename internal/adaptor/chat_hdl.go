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

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With(zap.String("handler", "chat")),
	}
}

// OpenRoom handles POST /api/chat/rooms (protected). Resolves or creates
// the room for the caller and the given participant.
func (h *ChatHandler) OpenRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		UserName  string `json:"userName"`
		OtherID   string `json:"otherId"`
		OtherName string `json:"otherName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OtherID == "" {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	room, err := h.service.GetOrCreateRoom(r.Context(), userID, req.UserName, req.OtherID, req.OtherName)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// SendMessage handles POST /api/chat/messages (protected)
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, r.Header.Get("X-User-Name"), &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", msg)
}

// MarkRead handles PUT /api/chat/rooms/{id}/read (protected)
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
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

// StreamRooms handles GET /api/chat/rooms/stream (protected, SSE). Rooms
// arrive unread-first, then by recency.
func (h *ChatHandler) StreamRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchRooms(r.Context(), userID)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open room stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}

// StreamMessages handles GET /api/chat/rooms/{id}/messages/stream (protected, SSE)
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stream, err := h.service.WatchMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseInternalError(w, "Could not open message stream")
		return
	}

	streamSnapshots(w, r, h.log, stream)
}
