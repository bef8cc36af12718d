package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// AdminSeed describes the administrator account created on first start.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// UserService implements user account operations.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
	cost   int
}

// NewUserService creates a new user service.
func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger, cost: bcryptCost}
}

// EnsureAdmin creates the admin account described by seed unless a user with
// that email already exists. It returns whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		return false, apperrors.InvalidInput("admin email is required")
	}
	if seed.Password == "" {
		return false, apperrors.InvalidInput("admin password is required")
	}

	created := false
	err := s.store.InTx(ctx, repository.TxReadWrite, func(repos repository.Repositories) error {
		_, err := repos.Users.GetByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !apperrors.IsNotFound(err) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		now := time.Now().UTC()
		err = repos.Users.Create(ctx, &domain.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			Phone:        seed.Phone,
			Role:         domain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		// Another instance seeded the same email first.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	if created {
		s.logger.InfoContext(ctx, "admin user created", slog.String("email", email))
	} else {
		s.logger.DebugContext(ctx, "admin user already present", slog.String("email", email))
	}

	return created, nil
}
