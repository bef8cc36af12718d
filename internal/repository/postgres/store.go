package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/travelgo/travel-booking/internal/repository"
	"github.com/travelgo/travel-booking/pkg/database"
)

// Store implements repository.Store on a pgx pool.
type Store struct {
	pool database.Pool
}

// NewStore creates a Store backed by pool.
func NewStore(pool database.Pool) *Store {
	return &Store{pool: pool}
}

// InTx runs fn with repositories bound to a single transaction.
func (s *Store) InTx(ctx context.Context, mode repository.TxMode, fn func(repos repository.Repositories) error) error {
	opts := database.ReadWriteTx
	if mode == repository.TxReadOnly {
		opts = database.ReadOnlyTx
	}

	return database.WithTx(ctx, s.pool, opts, func(tx pgx.Tx) error {
		return fn(Repositories(tx))
	})
}

// Repositories returns the repositories bound to db, which may be a pool or a
// transaction.
func Repositories(db database.DBTX) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(db),
		Tours:    NewTourRepository(db),
		Wishlist: NewWishlistRepository(db),
	}
}
