package postgres

import (
	"context"
	"fmt"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/pkg/database"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
)

const (
	existsWishlistSQL = `SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id = $1 AND tour_id = $2)`

	insertWishlistSQL = `
		INSERT INTO wishlists (user_id, tour_id, created_at)
		VALUES ($1, $2, $3)`

	deleteWishlistSQL = `DELETE FROM wishlists WHERE user_id = $1 AND tour_id = $2`

	listWishlistSQL = `
		SELECT user_id, tour_id, created_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY created_at ASC, tour_id ASC`

	countWishlistSQL = `SELECT COUNT(*) FROM wishlists WHERE tour_id = $1`
)

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	db database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Exists checks whether a tour is in the user's wishlist.
func (r *WishlistRepository) Exists(ctx context.Context, userID, tourID string) (exists bool, err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.Exists", existsWishlistSQL)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, existsWishlistSQL, userID, tourID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check wishlist entry exists: %w", err)
	}

	return exists, nil
}

// Insert adds an entry. The (user_id, tour_id) primary key rejects duplicates,
// which surface as a Conflict error.
func (r *WishlistRepository) Insert(ctx context.Context, entry *domain.WishlistEntry) (err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.Insert", insertWishlistSQL)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, insertWishlistSQL, entry.UserID, entry.TourID, entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("tour is already in wishlist")
		}
		return fmt.Errorf("insert wishlist entry: %w", err)
	}

	return nil
}

// DeleteByUserAndTour removes the entry and returns the number of rows deleted.
func (r *WishlistRepository) DeleteByUserAndTour(ctx context.Context, userID, tourID string) (deleted int64, err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.DeleteByUserAndTour", deleteWishlistSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, deleteWishlistSQL, userID, tourID)
	if err != nil {
		return 0, fmt.Errorf("delete wishlist entry: %w", err)
	}

	return ct.RowsAffected(), nil
}

// ListByUser returns the user's entries, oldest first.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) (entries []domain.WishlistEntry, err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.ListByUser", listWishlistSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listWishlistSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.WishlistEntry
		if err = rows.Scan(&e.UserID, &e.TourID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	if entries == nil {
		entries = []domain.WishlistEntry{}
	}

	return entries, nil
}

// CountByTour returns the number of wishlists containing the tour.
func (r *WishlistRepository) CountByTour(ctx context.Context, tourID string) (count int64, err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.CountByTour", countWishlistSQL)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, countWishlistSQL, tourID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count wishlist entries: %w", err)
	}

	return count, nil
}
