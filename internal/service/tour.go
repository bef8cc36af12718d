package service

import (
	"context"
	"fmt"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

// TourService exposes tour lookups.
type TourService struct {
	store repository.Store
}

// NewTourService creates a new tour service.
func NewTourService(store repository.Store) *TourService {
	return &TourService{store: store}
}

// GetTourByID returns the tour or a NotFound error.
func (s *TourService) GetTourByID(ctx context.Context, id string) (*domain.Tour, error) {
	var tour *domain.Tour
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		var err error
		tour, err = repos.Tours.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}
	return tour, nil
}

// ListTours returns a page of active tours.
func (s *TourService) ListTours(ctx context.Context, params pagination.Params) (pagination.Result[domain.Tour], error) {
	var (
		tours []domain.Tour
		total int
	)
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		var err error
		tours, total, err = repos.Tours.List(ctx, params)
		return err
	})
	if err != nil {
		return pagination.Result[domain.Tour]{}, fmt.Errorf("list tours: %w", err)
	}
	return pagination.NewResult(tours, total, params), nil
}
