package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/middleware"
)

// SessionService resolves the current user from the identity the auth
// middleware placed in the request context.
type SessionService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store repository.Store, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// CurrentUser returns the authenticated, active user. It fails with
// Unauthorized when the request carries no identity or the user no longer
// exists or is deactivated.
func (s *SessionService) CurrentUser(ctx context.Context) (*domain.User, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return nil, apperrors.Unauthorized("user not authenticated")
	}

	var user *domain.User
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.WarnContext(ctx, "token subject has no user", slog.String("user_id", userID))
			return nil, apperrors.Unauthorized("user not authenticated")
		}
		return nil, fmt.Errorf("load current user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("user account is deactivated")
	}

	return user, nil
}
