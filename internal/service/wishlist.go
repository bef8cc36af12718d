package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
)

// SessionResolver resolves the authenticated user for a request.
type SessionResolver interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// WishlistEventPublisher emits wishlist domain events.
type WishlistEventPublisher interface {
	PublishItemAdded(ctx context.Context, userID, tourID string) error
	PublishItemRemoved(ctx context.Context, userID, tourID string) error
}

// WishlistService implements the wishlist business logic. Duplicate entries
// are ultimately rejected by the (user_id, tour_id) primary key; the Exists
// pre-check only produces the friendly error earlier.
type WishlistService struct {
	store    repository.Store
	sessions SessionResolver
	cache    repository.WishlistCountCache
	events   WishlistEventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewWishlistService creates a new wishlist service. cache and events may be
// nil, in which case counts always come from the database and no events are
// published.
func NewWishlistService(
	store repository.Store,
	sessions SessionResolver,
	cache repository.WishlistCountCache,
	events WishlistEventPublisher,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		store:    store,
		sessions: sessions,
		cache:    cache,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddToWishlist saves a tour to the user's wishlist. It fails with NotFound
// when the user or tour is missing and Conflict when the tour is already saved.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, tourID string) error {
	err := s.store.InTx(ctx, repository.TxReadWrite, func(repos repository.Repositories) error {
		if _, err := repos.Users.GetByID(ctx, userID); err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if _, err := repos.Tours.GetByID(ctx, tourID); err != nil {
			return fmt.Errorf("get tour: %w", err)
		}

		exists, err := repos.Wishlist.Exists(ctx, userID, tourID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("tour is already in wishlist")
		}

		return repos.Wishlist.Insert(ctx, &domain.WishlistEntry{
			UserID:    userID,
			TourID:    tourID,
			CreatedAt: s.now(),
		})
	})
	if err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "tour added to wishlist",
		slog.String("user_id", userID),
		slog.String("tour_id", tourID),
	)

	s.invalidateCount(ctx, tourID)
	if s.events != nil {
		if err := s.events.PublishItemAdded(ctx, userID, tourID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish wishlist.item_added event",
				slog.String("tour_id", tourID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// RemoveFromWishlist removes a tour from the user's wishlist. Removing an
// entry that does not exist succeeds without side effects.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, tourID string) error {
	var deleted int64
	err := s.store.InTx(ctx, repository.TxReadWrite, func(repos repository.Repositories) error {
		var err error
		deleted, err = repos.Wishlist.DeleteByUserAndTour(ctx, userID, tourID)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}

	if deleted == 0 {
		s.logger.DebugContext(ctx, "wishlist entry already absent",
			slog.String("user_id", userID),
			slog.String("tour_id", tourID),
		)
		return nil
	}

	s.logger.InfoContext(ctx, "tour removed from wishlist",
		slog.String("user_id", userID),
		slog.String("tour_id", tourID),
	)

	s.invalidateCount(ctx, tourID)
	if s.events != nil {
		if err := s.events.PublishItemRemoved(ctx, userID, tourID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish wishlist.item_removed event",
				slog.String("tour_id", tourID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// GetUserWishlist returns the tours in the user's wishlist, oldest entry first.
// A user with no entries, or an unknown user, gets an empty slice. Entries
// whose tour no longer exists are skipped and logged, so the result can be
// shorter than the stored wishlist.
func (s *WishlistService) GetUserWishlist(ctx context.Context, userID string) ([]domain.Tour, error) {
	var tours []domain.Tour
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		entries, err := repos.Wishlist.ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.TourID)
		}

		byID, err := repos.Tours.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		tours = make([]domain.Tour, 0, len(entries))
		for _, e := range entries {
			t, ok := byID[e.TourID]
			if !ok {
				s.logger.WarnContext(ctx, "wishlist entry references missing tour",
					slog.String("user_id", userID),
					slog.String("tour_id", e.TourID),
				)
				continue
			}
			tours = append(tours, *t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get user wishlist: %w", err)
	}

	return tours, nil
}

// IsInWishlist reports whether the tour is in the user's wishlist.
func (s *WishlistService) IsInWishlist(ctx context.Context, userID, tourID string) (bool, error) {
	var exists bool
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		var err error
		exists, err = repos.Wishlist.Exists(ctx, userID, tourID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}

	return exists, nil
}

// GetWishlistCountByTourID returns how many users saved the tour. An unknown
// tour has a count of zero.
//
// A cache miss reads the database and stores the result only if no add or
// remove for the tour invalidated the cache in the meantime.
func (s *WishlistService) GetWishlistCountByTourID(ctx context.Context, tourID string) (int64, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, tourID)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "wishlist count cache read failed",
				slog.String("tour_id", tourID),
				slog.String("error", err.Error()),
			)
		case snap.Hit:
			return snap.Count, nil
		default:
			generation = snap.Generation
			cacheable = true
		}
	}

	var count int64
	err := s.store.InTx(ctx, repository.TxReadOnly, func(repos repository.Repositories) error {
		var err error
		count, err = repos.Wishlist.CountByTour(ctx, tourID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count wishlist entries: %w", err)
	}

	if cacheable {
		stored, err := s.cache.Set(ctx, tourID, count, generation)
		if err != nil {
			s.logger.WarnContext(ctx, "wishlist count cache write failed",
				slog.String("tour_id", tourID),
				slog.String("error", err.Error()),
			)
		} else if !stored {
			s.logger.DebugContext(ctx, "wishlist count changed during read, not cached",
				slog.String("tour_id", tourID),
			)
		}
	}

	return count, nil
}

// AddToWishlistForCurrentUser adds the tour for the authenticated user.
func (s *WishlistService) AddToWishlistForCurrentUser(ctx context.Context, tourID string) error {
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return s.AddToWishlist(ctx, user.ID, tourID)
}

// RemoveFromWishlistForCurrentUser removes the tour for the authenticated user.
func (s *WishlistService) RemoveFromWishlistForCurrentUser(ctx context.Context, tourID string) error {
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return s.RemoveFromWishlist(ctx, user.ID, tourID)
}

// GetCurrentUserWishlist returns the authenticated user's wishlist.
func (s *WishlistService) GetCurrentUserWishlist(ctx context.Context) ([]domain.Tour, error) {
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetUserWishlist(ctx, user.ID)
}

// IsInCurrentUserWishlist reports whether the tour is in the authenticated
// user's wishlist.
func (s *WishlistService) IsInCurrentUserWishlist(ctx context.Context, tourID string) (bool, error) {
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return s.IsInWishlist(ctx, user.ID, tourID)
}

// invalidateCount drops the cached count after a committed change. Failures
// are logged; the cache TTL bounds how long a stale count can be served.
func (s *WishlistService) invalidateCount(ctx context.Context, tourID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tourID); err != nil {
		s.logger.WarnContext(ctx, "wishlist count cache invalidation failed",
			slog.String("tour_id", tourID),
			slog.String("error", err.Error()),
		)
	}
}
