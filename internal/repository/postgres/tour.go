package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/pkg/database"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

const (
	tourColumns = `id, title, description, destination, category, difficulty, duration_days,
		max_group_size, price, currency, image_url, rating, review_count, is_active, created_at, updated_at`

	getTourByIDSQL   = `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`
	getToursByIDsSQL = `SELECT ` + tourColumns + ` FROM tours WHERE id = ANY($1)`

	countActiveToursSQL = `SELECT COUNT(*) FROM tours WHERE is_active = true`
	listActiveToursSQL  = `SELECT ` + tourColumns + `
		FROM tours
		WHERE is_active = true
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2`
)

// TourRepository implements repository.TourRepository using PostgreSQL.
type TourRepository struct {
	db database.DBTX
}

// NewTourRepository creates a new PostgreSQL-backed tour repository.
func NewTourRepository(db database.DBTX) *TourRepository {
	return &TourRepository{db: db}
}

// GetByID retrieves a tour by its ID.
func (r *TourRepository) GetByID(ctx context.Context, id string) (_ *domain.Tour, err error) {
	ctx, end := database.TraceQuery(ctx, "tours.GetByID", getTourByIDSQL)
	defer func() { end(err) }()

	t, err := scanTour(r.db.QueryRow(ctx, getTourByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tour", id)
		}
		return nil, fmt.Errorf("scan tour: %w", err)
	}

	return t, nil
}

// GetByIDs loads several tours in one round trip.
func (r *TourRepository) GetByIDs(ctx context.Context, ids []string) (_ map[string]*domain.Tour, err error) {
	tours := make(map[string]*domain.Tour, len(ids))
	if len(ids) == 0 {
		return tours, nil
	}

	ctx, end := database.TraceQuery(ctx, "tours.GetByIDs", getToursByIDsSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, getToursByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get tours by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour row: %w", err)
		}
		tours[t.ID] = t
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tour rows: %w", err)
	}

	return tours, nil
}

// List returns a page of active tours, newest first, and the total count.
func (r *TourRepository) List(ctx context.Context, params pagination.Params) (_ []domain.Tour, _ int, err error) {
	ctx, end := database.TraceQuery(ctx, "tours.List", listActiveToursSQL)
	defer func() { end(err) }()

	var total int
	if err = r.db.QueryRow(ctx, countActiveToursSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tours: %w", err)
	}

	rows, err := r.db.Query(ctx, listActiveToursSQL, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	tours := []domain.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tour row: %w", err)
		}
		tours = append(tours, *t)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tour rows: %w", err)
	}

	return tours, total, nil
}

func scanTour(row pgx.Row) (*domain.Tour, error) {
	var t domain.Tour
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Destination,
		&t.Category,
		&t.Difficulty,
		&t.DurationDays,
		&t.MaxGroupSize,
		&t.Price,
		&t.Currency,
		&t.ImageURL,
		&t.Rating,
		&t.ReviewCount,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
