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

type ListingHandler struct {
	listings usecase.ListingService
	ratings  usecase.RatingService
	log      *zap.Logger
}

func NewListingHandler(listings usecase.ListingService, ratings usecase.RatingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		ratings:  ratings,
		log:      log.With(zap.String("handler", "listing")),
	}
}

// CreateListing handles POST /api/services (protected)
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), userID, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseCreated(w, "success", listing)
}

// GetListing handles GET /api/services/{id} (public)
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		utils.ResponseNotFound(w, err.Error())
		return
	}
	utils.ResponseSuccess(w, "success", listing)
}

// ListServices handles GET /api/services (public, paginated)
func (h *ListingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListAll(r.Context())
	if err != nil {
		utils.ResponseInternalError(w, "Could not load services")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	total := int64(len(listings))
	offset := utils.CalculateOffset(page, perPage)
	if offset > len(listings) {
		offset = len(listings)
	}
	end := offset + perPage
	if end > len(listings) {
		end = len(listings)
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"services":   listings[offset:end],
		"page":       page,
		"perPage":    perPage,
		"total":      total,
		"totalPages": utils.CalculateTotalPages(total, perPage),
	})
}

// RateService handles POST /api/services/rate (protected)
func (h *ListingHandler) RateService(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.ratings.Rate(r.Context(), userID, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// StreamListings handles GET /api/services/stream (public, SSE). Each
// emission is the complete listing set with live rating means.
func (h *ListingHandler) StreamListings(w http.ResponseWriter, r *http.Request) {
	stream, err := h.ratings.WatchListings(r.Context())
	if err != nil {
		utils.ResponseInternalError(w, "Could not open listing stream")
		return
	}
	defer stream.Close()

	streamJSON(w, r, h.log, stream.Listings(), nil)
}

// StreamListing handles GET /api/services/{id}/stream (public, SSE)
func (h *ListingHandler) StreamListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stream, err := h.ratings.WatchService(r.Context(), id)
	if err != nil {
		utils.ResponseInternalError(w, "Could not open listing stream")
		return
	}
	defer stream.Close()

	streamJSON(w, r, h.log, stream.Listings(), nil)
}
