package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourID_Deterministic(t *testing.T) {
	assert.Equal(t, tourID(7), tourID(7))
	assert.NotEqual(t, tourID(7), tourID(8))

	_, err := uuid.Parse(tourID(7))
	require.NoError(t, err)
}

func TestGenerateTours(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a := generateTours(rand.New(rand.NewSource(42)), 25, now)
	b := generateTours(rand.New(rand.NewSource(42)), 25, now)

	require.Len(t, a, 25)
	assert.Equal(t, a, b)

	seen := make(map[string]bool)
	for _, tour := range a {
		assert.False(t, seen[tour.ID], "duplicate id %s", tour.ID)
		seen[tour.ID] = true

		assert.True(t, tour.IsActive)
		assert.GreaterOrEqual(t, tour.DurationDays, 1)
		assert.Zero(t, tour.Price%100)
		assert.GreaterOrEqual(t, tour.Rating, 3.0)
		assert.LessOrEqual(t, tour.Rating, 5.0)
		assert.False(t, tour.CreatedAt.After(now))
	}
}

func TestInsertToursSQL_Placeholders(t *testing.T) {
	query := insertToursSQL(2)
	assert.Contains(t, query, "($1, $2, $3")
	assert.Contains(t, query, "$16), ($17")
	assert.True(t, strings.HasSuffix(query, "$32) ON CONFLICT (id) DO NOTHING"))
}

func TestSeed_Batches(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tours := generateTours(rand.New(rand.NewSource(1)), batchSize+5, time.Now().UTC())

	mock.ExpectExec("INSERT INTO tours").
		WithArgs(anyArgs(batchSize * 16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", int64(batchSize)))
	mock.ExpectExec("INSERT INTO tours").
		WithArgs(anyArgs(5 * 16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	inserted, err := seed(context.Background(), mock, tours, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, int64(batchSize+3), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tours := generateTours(rand.New(rand.NewSource(1)), 3, time.Now().UTC())
	mock.ExpectExec("INSERT INTO tours").
		WithArgs(anyArgs(3 * 16)...).
		WillReturnError(errors.New("relation \"tours\" does not exist"))

	_, err = seed(context.Background(), mock, tours, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert tours batch 0-3")
}

func TestRun_ReturnsErrorsInsteadOfExiting(t *testing.T) {
	err := run(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be positive")

	t.Setenv("HTTP_PORT", "not-a-port")
	err = run(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
