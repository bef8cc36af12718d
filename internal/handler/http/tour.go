package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/pkg/httputil"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

// TourService is the read-only tour catalogue used by the handlers.
type TourService interface {
	GetTourByID(ctx context.Context, id string) (*domain.Tour, error)
	ListTours(ctx context.Context, params pagination.Params) (pagination.Result[domain.Tour], error)
}

// TourHandler serves the public tour catalogue.
type TourHandler struct {
	service TourService
	logger  *slog.Logger
}

// NewTourHandler creates a new tour HTTP handler.
func NewTourHandler(service TourService, logger *slog.Logger) *TourHandler {
	return &TourHandler{service: service, logger: logger}
}

// List handles GET /api/tours
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListTours(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /api/tours/{id}
func (h *TourHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	tour, err := h.service.GetTourByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tour)
}
