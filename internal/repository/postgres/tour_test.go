package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelgo/travel-booking/internal/domain"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

var tourRowColumns = []string{
	"id", "title", "description", "destination", "category", "difficulty", "duration_days",
	"max_group_size", "price", "currency", "image_url", "rating", "review_count", "is_active", "created_at", "updated_at",
}

func newTourTestFixture(t *testing.T) (*TourRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewTourRepository(mock), mock
}

func sampleTour(id, title string) *domain.Tour {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Tour{
		ID:           id,
		Title:        title,
		Description:  "Seven days along the coast",
		Destination:  "Amalfi",
		Category:     "adventure",
		Difficulty:   "moderate",
		DurationDays: 7,
		MaxGroupSize: 12,
		Price:        149900,
		Currency:     "EUR",
		Rating:       4.7,
		ReviewCount:  31,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func addTourRow(rows *pgxmock.Rows, t *domain.Tour) *pgxmock.Rows {
	return rows.AddRow(
		t.ID, t.Title, t.Description, t.Destination, t.Category, t.Difficulty, t.DurationDays,
		t.MaxGroupSize, t.Price, t.Currency, t.ImageURL, t.Rating, t.ReviewCount, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTourRepository_GetByID(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	want := sampleTour(testTourID, "Coastal Walk")
	mock.ExpectQuery("FROM tours WHERE id =").
		WithArgs(testTourID).
		WillReturnRows(addTourRow(pgxmock.NewRows(tourRowColumns), want))

	got, err := repo.GetByID(context.Background(), testTourID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("FROM tours WHERE id =").
		WithArgs(testTourID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), testTourID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByIDs(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	ids := []string{"tour-5", "tour-7", "tour-gone"}
	rows := pgxmock.NewRows(tourRowColumns)
	addTourRow(rows, sampleTour("tour-7", "Seven"))
	addTourRow(rows, sampleTour("tour-5", "Five"))
	mock.ExpectQuery("WHERE id = ANY").
		WithArgs(ids).
		WillReturnRows(rows)

	tours, err := repo.GetByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, tours, 2)
	assert.Equal(t, "Five", tours["tour-5"].Title)
	assert.Equal(t, "Seven", tours["tour-7"].Title)
	assert.NotContains(t, tours, "tour-gone")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByIDs_EmptySkipsQuery(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	tours, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, tours)
	assert.Empty(t, tours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_List(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	params := pagination.Params{Page: 2, PerPage: 1, Offset: 1}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tours WHERE is_active = true").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("LIMIT \\$1 OFFSET \\$2").
		WithArgs(1, 1).
		WillReturnRows(addTourRow(pgxmock.NewRows(tourRowColumns), sampleTour("tour-5", "Five")))

	tours, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, tours, 1)
	assert.Equal(t, "tour-5", tours[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_List_CountError(t *testing.T) {
	repo, mock := newTourTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tours").
		WillReturnError(errors.New("count failed"))

	tours, total, err := repo.List(context.Background(), pagination.DefaultParams())
	require.Error(t, err)
	assert.Nil(t, tours)
	assert.Zero(t, total)
	assert.Contains(t, err.Error(), "count tours")
	assert.NoError(t, mock.ExpectationsWereMet())
}
