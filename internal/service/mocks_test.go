package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/internal/repository"
	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/pagination"
)

// --- Mock Repositories ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockTourRepository struct {
	mock.Mock
}

func (m *mockTourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tour), args.Error(1)
}

func (m *mockTourRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Tour, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Tour), args.Error(1)
}

func (m *mockTourRepository) List(ctx context.Context, params pagination.Params) ([]domain.Tour, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Tour), args.Int(1), args.Error(2)
}

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Exists(ctx context.Context, userID, tourID string) (bool, error) {
	args := m.Called(ctx, userID, tourID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepository) Insert(ctx context.Context, entry *domain.WishlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockWishlistRepository) DeleteByUserAndTour(ctx context.Context, userID, tourID string) (int64, error) {
	args := m.Called(ctx, userID, tourID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WishlistEntry), args.Error(1)
}

func (m *mockWishlistRepository) CountByTour(ctx context.Context, tourID string) (int64, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Collaborators ---

type mockCountCache struct {
	mock.Mock
}

func (m *mockCountCache) Get(ctx context.Context, tourID string) (repository.CountSnapshot, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(repository.CountSnapshot), args.Error(1)
}

func (m *mockCountCache) Set(ctx context.Context, tourID string, count, generation int64) (bool, error) {
	args := m.Called(ctx, tourID, count, generation)
	return args.Bool(0), args.Error(1)
}

func (m *mockCountCache) Invalidate(ctx context.Context, tourID string) error {
	args := m.Called(ctx, tourID)
	return args.Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishItemAdded(ctx context.Context, userID, tourID string) error {
	args := m.Called(ctx, userID, tourID)
	return args.Error(0)
}

func (m *mockEvents) PublishItemRemoved(ctx context.Context, userID, tourID string) error {
	args := m.Called(ctx, userID, tourID)
	return args.Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) CurrentUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Store Fakes ---

// fakeStore hands the same repositories to every transaction and records the
// requested modes. When fn fails the error is returned as a rollback would.
type fakeStore struct {
	repos repository.Repositories
	modes []repository.TxMode
}

func (s *fakeStore) InTx(_ context.Context, mode repository.TxMode, fn func(repository.Repositories) error) error {
	s.modes = append(s.modes, mode)
	return fn(s.repos)
}

type testRepos struct {
	users    *mockUserRepository
	tours    *mockTourRepository
	wishlist *mockWishlistRepository
	store    *fakeStore
}

func newTestRepos() *testRepos {
	r := &testRepos{
		users:    new(mockUserRepository),
		tours:    new(mockTourRepository),
		wishlist: new(mockWishlistRepository),
	}
	r.store = &fakeStore{repos: repository.Repositories{Users: r.users, Tours: r.tours, Wishlist: r.wishlist}}
	return r
}

func (r *testRepos) assertExpectations(t *testing.T) {
	t.Helper()
	r.users.AssertExpectations(t)
	r.tours.AssertExpectations(t)
	r.wishlist.AssertExpectations(t)
}

// memStore is an in-memory Store with transactional semantics: writes made
// inside a failed transaction are discarded.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	tours    map[string]*domain.Tour
	wishlist map[[2]string]domain.WishlistEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*domain.User{},
		tours:    map[string]*domain.Tour{},
		wishlist: map[[2]string]domain.WishlistEntry{},
	}
}

func (s *memStore) InTx(_ context.Context, _ repository.TxMode, fn func(repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		users:    cloneMap(s.users),
		tours:    s.tours,
		wishlist: cloneMap(s.wishlist),
	}
	repos := repository.Repositories{
		Users:    memUsers{tx},
		Tours:    memTours{tx},
		Wishlist: memWishlist{tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	s.users = tx.users
	s.wishlist = tx.wishlist
	return nil
}

// memCountCache mirrors the Redis cache's generation check in memory.
type memCountCache struct {
	mu          sync.Mutex
	counts      map[string]int64
	generations map[string]int64
}

func newMemCountCache() *memCountCache {
	return &memCountCache{counts: map[string]int64{}, generations: map[string]int64{}}
}

func (c *memCountCache) Get(_ context.Context, tourID string) (repository.CountSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[tourID]
	return repository.CountSnapshot{Count: n, Hit: ok, Generation: c.generations[tourID]}, nil
}

func (c *memCountCache) Set(_ context.Context, tourID string, count, generation int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[tourID] != generation {
		return false, nil
	}
	c.counts[tourID] = count
	return true, nil
}

func (c *memCountCache) Invalidate(_ context.Context, tourID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[tourID]++
	delete(c.counts, tourID)
	return nil
}

// interleavingStore runs afterRead once, right after the first read-only
// transaction commits, to let a writer slip in before the caller continues.
type interleavingStore struct {
	*memStore
	afterRead func()
	fired     bool
}

func (s *interleavingStore) InTx(ctx context.Context, mode repository.TxMode, fn func(repository.Repositories) error) error {
	if err := s.memStore.InTx(ctx, mode, fn); err != nil {
		return err
	}
	if mode == repository.TxReadOnly && !s.fired && s.afterRead != nil {
		s.fired = true
		s.afterRead()
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type memTx struct {
	users    map[string]*domain.User
	tours    map[string]*domain.Tour
	wishlist map[[2]string]domain.WishlistEntry
}

type memUsers struct{ tx *memTx }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.tx.users {
		if existing.Email == u.Email {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
	}
	r.tx.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.tx.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", id)
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.tx.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

type memTours struct{ tx *memTx }

func (r memTours) GetByID(_ context.Context, id string) (*domain.Tour, error) {
	if t, ok := r.tx.tours[id]; ok {
		return t, nil
	}
	return nil, apperrors.NotFound("tour", id)
}

func (r memTours) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Tour, error) {
	out := map[string]*domain.Tour{}
	for _, id := range ids {
		if t, ok := r.tx.tours[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (r memTours) List(_ context.Context, params pagination.Params) ([]domain.Tour, int, error) {
	all := make([]domain.Tour, 0, len(r.tx.tours))
	for _, t := range r.tx.tours {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if params.Offset >= len(all) {
		return []domain.Tour{}, len(all), nil
	}
	end := min(params.Offset+params.PerPage, len(all))
	return all[params.Offset:end], len(all), nil
}

type memWishlist struct{ tx *memTx }

func (r memWishlist) Exists(_ context.Context, userID, tourID string) (bool, error) {
	_, ok := r.tx.wishlist[[2]string{userID, tourID}]
	return ok, nil
}

func (r memWishlist) Insert(_ context.Context, e *domain.WishlistEntry) error {
	key := [2]string{e.UserID, e.TourID}
	if _, ok := r.tx.wishlist[key]; ok {
		return apperrors.Conflict("tour is already in wishlist")
	}
	r.tx.wishlist[key] = *e
	return nil
}

func (r memWishlist) DeleteByUserAndTour(_ context.Context, userID, tourID string) (int64, error) {
	key := [2]string{userID, tourID}
	if _, ok := r.tx.wishlist[key]; !ok {
		return 0, nil
	}
	delete(r.tx.wishlist, key)
	return 1, nil
}

func (r memWishlist) ListByUser(_ context.Context, userID string) ([]domain.WishlistEntry, error) {
	entries := []domain.WishlistEntry{}
	for _, e := range r.tx.wishlist {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].TourID < entries[j].TourID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r memWishlist) CountByTour(_ context.Context, tourID string) (int64, error) {
	var n int64
	for _, e := range r.tx.wishlist {
		if e.TourID == tourID {
			n++
		}
	}
	return n, nil
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
