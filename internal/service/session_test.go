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
	"github.com/travelgo/travel-booking/pkg/middleware"
)

func authenticated(id string) context.Context {
	return middleware.WithClaims(context.Background(), &middleware.Claims{UserID: id, Role: domain.RoleCustomer})
}

func TestCurrentUser_Success(t *testing.T) {
	r := newTestRepos()
	svc := NewSessionService(r.store, newTestLogger())
	ctx := authenticated(userID)

	r.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, IsActive: true}, nil)

	u, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.Equal(t, []repository.TxMode{repository.TxReadOnly}, r.store.modes)
}

func TestCurrentUser_NoIdentity(t *testing.T) {
	r := newTestRepos()
	svc := NewSessionService(r.store, newTestLogger())

	_, err := svc.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Empty(t, r.store.modes)
}

func TestCurrentUser_UnknownUser(t *testing.T) {
	r := newTestRepos()
	svc := NewSessionService(r.store, newTestLogger())
	ctx := authenticated("ghost")

	r.users.On("GetByID", ctx, "ghost").Return(nil, apperrors.NotFound("user", "ghost"))

	_, err := svc.CurrentUser(ctx)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestCurrentUser_Deactivated(t *testing.T) {
	r := newTestRepos()
	svc := NewSessionService(r.store, newTestLogger())
	ctx := authenticated(userID)

	r.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, IsActive: false}, nil)

	_, err := svc.CurrentUser(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestCurrentUser_StoreError(t *testing.T) {
	r := newTestRepos()
	svc := NewSessionService(r.store, newTestLogger())
	ctx := authenticated(userID)

	r.users.On("GetByID", ctx, userID).Return(nil, errors.New("connection refused"))

	_, err := svc.CurrentUser(ctx)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}
