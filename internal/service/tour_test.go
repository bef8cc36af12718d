package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

func TestGetTourByID(t *testing.T) {
	r := newTestRepos()
	svc := NewTourService(r.store)
	ctx := context.Background()

	r.tours.On("GetByID", ctx, tour5).Return(&domain.Tour{ID: tour5, Title: "Five"}, nil)

	tour, err := svc.GetTourByID(ctx, tour5)
	require.NoError(t, err)
	assert.Equal(t, "Five", tour.Title)
	assert.Equal(t, []repository.TxMode{repository.TxReadOnly}, r.store.modes)
}

func TestGetTourByID_NotFound(t *testing.T) {
	r := newTestRepos()
	svc := NewTourService(r.store)
	ctx := context.Background()

	r.tours.On("GetByID", ctx, "nope").Return(nil, apperrors.NotFound("tour", "nope"))

	_, err := svc.GetTourByID(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListTours(t *testing.T) {
	r := newTestRepos()
	svc := NewTourService(r.store)
	ctx := context.Background()
	params := pagination.Params{Page: 1, PerPage: 2}

	r.tours.On("List", ctx, params).Return([]domain.Tour{{ID: tour5}, {ID: tour7}}, 3, nil)

	page, err := svc.ListTours(ctx, params)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
}

func TestListTours_Error(t *testing.T) {
	r := newTestRepos()
	svc := NewTourService(r.store)
	ctx := context.Background()

	r.tours.On("List", ctx, pagination.DefaultParams()).Return(nil, 0, errors.New("boom"))

	_, err := svc.ListTours(ctx, pagination.DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list tours")
}
