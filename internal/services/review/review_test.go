package review

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

type EngineMock struct {
	mock.Mock
}

func (m *EngineMock) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *EngineMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *EngineMock) InsertReview(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error) {
	args := m.Called(ctx, userID, username, rating, comment)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func (m *EngineMock) ListReviews(ctx context.Context) ([]models.Review, error) {
	args := m.Called(ctx)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *EngineMock) Ping(_ context.Context) error { return nil }
func (m *EngineMock) Close() error                 { return nil }

type storeStub struct {
	engine storage.Engine
	err    error
}

func (s *storeStub) Engine(_ context.Context) (storage.Engine, error) {
	return s.engine, s.err
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create_InvalidatesCache(t *testing.T) {
	engineMock := new(EngineMock)
	cacheMock := new(CacheMock)
	service := New(&storeStub{engine: engineMock}, cacheMock, newNoopLogger())

	stored := &models.Review{
		ID:       3,
		UserID:   7,
		Username: "alice",
		Rating:   5,
		Comment:  "Great service!",
	}
	engineMock.On("InsertReview", mock.Anything, int64(7), "alice", 5, "Great service!").
		Return(stored, nil).Once()
	cacheMock.On("Invalidate", mock.Anything, feedCacheKey).Return(nil).Once()

	got, err := service.Create(context.Background(), 7, "alice", 5, "Great service!")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	engineMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestService_Create_WithoutCache(t *testing.T) {
	engineMock := new(EngineMock)
	service := New(&storeStub{engine: engineMock}, nil, newNoopLogger())

	stored := &models.Review{ID: 1, UserID: 7, Username: "alice", Rating: 1, Comment: "barely acceptable"}
	engineMock.On("InsertReview", mock.Anything, int64(7), "alice", 1, "barely acceptable").
		Return(stored, nil).Once()

	got, err := service.Create(context.Background(), 7, "alice", 1, "barely acceptable")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestService_Create_StoreUnavailable(t *testing.T) {
	service := New(&storeStub{err: storage.ErrUnavailable}, nil, newNoopLogger())

	_, err := service.Create(context.Background(), 7, "alice", 5, "Great service!")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestService_List_CacheMissThenStore(t *testing.T) {
	engineMock := new(EngineMock)
	cacheMock := new(CacheMock)
	service := New(&storeStub{engine: engineMock}, cacheMock, newNoopLogger())

	feed := []models.Review{
		{ID: 2, UserID: 7, Username: "alice", Rating: 5, Comment: "Great service!"},
		{ID: 1, UserID: 7, Username: "alice", Rating: 4, Comment: "pretty good overall"},
	}
	cacheMock.On("Get", mock.Anything, feedCacheKey, mock.Anything).Return(false, nil).Once()
	engineMock.On("ListReviews", mock.Anything).Return(feed, nil).Once()
	cacheMock.On("Set", mock.Anything, feedCacheKey, feed, feedCacheTTL).Return(nil).Once()

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feed, got)

	engineMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestService_List_CacheHitSkipsStore(t *testing.T) {
	engineMock := new(EngineMock)
	cacheMock := new(CacheMock)
	service := New(&storeStub{engine: engineMock}, cacheMock, newNoopLogger())

	feed := []models.Review{
		{ID: 2, UserID: 7, Username: "alice", Rating: 5, Comment: "Great service!"},
	}
	cacheMock.On("Get", mock.Anything, feedCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*[]models.Review)
			*out = feed
		}).
		Return(true, nil).Once()

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feed, got)

	engineMock.AssertNotCalled(t, "ListReviews", mock.Anything)
}

func TestService_List_WithoutCache(t *testing.T) {
	engineMock := new(EngineMock)
	service := New(&storeStub{engine: engineMock}, nil, newNoopLogger())

	engineMock.On("ListReviews", mock.Anything).Return([]models.Review{}, nil).Once()

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
