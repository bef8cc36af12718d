package repository

import (
	"context"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields an AlreadyExists error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TourRepository defines the read side of tour persistence.
type TourRepository interface {
	// GetByID retrieves a tour by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Tour, error)

	// GetByIDs returns the tours with the given IDs keyed by ID. Missing IDs
	// are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Tour, error)

	// List returns a page of active tours and the total number of active tours.
	List(ctx context.Context, params pagination.Params) ([]domain.Tour, int, error)
}

// WishlistRepository is the persistence gateway for wishlist entries.
type WishlistRepository interface {
	// Exists reports whether the (userID, tourID) entry is present.
	Exists(ctx context.Context, userID, tourID string) (bool, error)

	// Insert stores a new entry. A unique violation yields a Conflict error.
	Insert(ctx context.Context, entry *domain.WishlistEntry) error

	// DeleteByUserAndTour removes the entry and returns the number of rows
	// deleted (0 or 1). An absent entry is not an error.
	DeleteByUserAndTour(ctx context.Context, userID, tourID string) (int64, error)

	// ListByUser returns the user's entries ordered by creation time, oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistEntry, error)

	// CountByTour returns how many users saved the tour.
	CountByTour(ctx context.Context, tourID string) (int64, error)
}

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Users    UserRepository
	Tours    TourRepository
	Wishlist WishlistRepository
}

// TxMode selects the access mode of a transaction.
type TxMode int

const (
	// TxReadWrite is used by operations that change state.
	TxReadWrite TxMode = iota
	// TxReadOnly is used by queries.
	TxReadOnly
)

func (m TxMode) String() string {
	if m == TxReadOnly {
		return "read-only"
	}
	return "read-write"
}

// Store is the transaction boundary. InTx commits when fn returns nil and
// rolls back when fn returns an error or panics.
type Store interface {
	InTx(ctx context.Context, mode TxMode, fn func(repos Repositories) error) error
}

// CountSnapshot is one read of the count cache. Generation changes on every
// invalidation and must be handed back to Set.
type CountSnapshot struct {
	Count      int64
	Hit        bool
	Generation int64
}

// WishlistCountCache caches per-tour wishlist counts.
type WishlistCountCache interface {
	// Get returns the cached count, if present, and the tour's generation.
	Get(ctx context.Context, tourID string) (CountSnapshot, error)

	// Set stores the count unless the tour was invalidated after generation
	// was read. It reports whether the count was stored.
	Set(ctx context.Context, tourID string, count, generation int64) (bool, error)

	// Invalidate drops the cached count and advances the generation.
	Invalidate(ctx context.Context, tourID string) error
}
