package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/pkg/httputil"
	"github.com/travelgo/travel-booking/pkg/validator"
)

// WishlistService is the wishlist use-case surface the handlers depend on.
type WishlistService interface {
	GetUserWishlist(ctx context.Context, userID string) ([]domain.Tour, error)
	GetWishlistCountByTourID(ctx context.Context, tourID string) (int64, error)
	AddToWishlistForCurrentUser(ctx context.Context, tourID string) error
	RemoveFromWishlistForCurrentUser(ctx context.Context, tourID string) error
	GetCurrentUserWishlist(ctx context.Context) ([]domain.Tour, error)
	IsInCurrentUserWishlist(ctx context.Context, tourID string) (bool, error)
}

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(service WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{service: service, logger: logger}
}

// --- Request / Response DTOs ---

type tourIDQuery struct {
	TourID string `query:"tourId" validate:"required"`
}

// RemoveResponse is the body returned by remove-current.
type RemoveResponse struct {
	Success bool   `json:"success"`
	TourID  string `json:"tourId"`
	Message string `json:"message"`
}

// ContainsResponse reports whether a tour is in the caller's wishlist.
type ContainsResponse struct {
	TourID     string `json:"tourId"`
	InWishlist bool   `json:"inWishlist"`
}

// --- Handlers ---

// GetUserWishlist handles GET /api/wishlist/user/{userId}
func (h *WishlistHandler) GetUserWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, r, "userId", chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	tours, err := h.service.GetUserWishlist(r.Context(), userID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tours)
}

// GetMyWishlist handles GET /api/wishlist/my-wishlist
func (h *WishlistHandler) GetMyWishlist(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.GetCurrentUserWishlist(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tours)
}

// AddCurrent handles POST /api/wishlist/add-current?tourId=
func (h *WishlistHandler) AddCurrent(w http.ResponseWriter, r *http.Request) {
	tourID, ok := tourIDFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.service.AddToWishlistForCurrentUser(r.Context(), tourID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// RemoveCurrent handles DELETE /api/wishlist/remove-current?tourId=
func (h *WishlistHandler) RemoveCurrent(w http.ResponseWriter, r *http.Request) {
	tourID, ok := tourIDFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveFromWishlistForCurrentUser(r.Context(), tourID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RemoveResponse{
		Success: true,
		TourID:  tourID,
		Message: "Removed from wishlist",
	})
}

// ContainsCurrent handles GET /api/wishlist/contains-current?tourId=
func (h *WishlistHandler) ContainsCurrent(w http.ResponseWriter, r *http.Request) {
	tourID, ok := tourIDFromQuery(w, r)
	if !ok {
		return
	}

	in, err := h.service.IsInCurrentUserWishlist(r.Context(), tourID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ContainsResponse{TourID: tourID, InWishlist: in})
}

// CountByTour handles GET /api/wishlist/tour/{tourId}/count
func (h *WishlistHandler) CountByTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := httputil.ParseUUID(w, r, "tourId", chi.URLParam(r, "tourId"))
	if !ok {
		return
	}

	count, err := h.service.GetWishlistCountByTourID(r.Context(), tourID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, count)
}

// tourIDFromQuery validates the tourId query parameter, writing a 400 when
// it is missing or malformed. The id is returned in canonical lowercase form,
// the same as path ids.
func tourIDFromQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := tourIDQuery{TourID: r.URL.Query().Get("tourId")}
	if err := validator.Validate(q); err != nil {
		httputil.WriteValidationError(w, r, err)
		return "", false
	}
	id, ok := httputil.ParseUUID(w, r, "tourId", q.TourID)
	if !ok {
		return "", false
	}
	return id.String(), true
}
