package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/review-board/internal/lib/jwt"
	"github.com/magabrotheeeer/review-board/internal/lib/password"
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

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test_secret_key_1234567890", 24*time.Hour)
}

func TestService_Register_TokenMatchesStoredUser(t *testing.T) {
	engineMock := new(EngineMock)
	maker := newMaker()
	service := New(&storeStub{engine: engineMock}, maker)

	stored := &models.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@x.com",
		CreatedAt: time.Now().UTC(),
	}
	engineMock.On("CreateUser", mock.Anything, "alice", "alice@x.com", mock.Anything).
		Return(stored, nil).Once()

	user, token, err := service.Register(context.Background(), "alice", "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	// пароль уходит в хранилище только в виде bcrypt-хэша
	sentHash := engineMock.Calls[0].Arguments.String(3)
	assert.NotEqual(t, "secret1", sentHash)
	require.NoError(t, password.CompareHash(sentHash, "secret1"))

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, stored.Username, claims.Username)
	assert.Equal(t, stored.Email, claims.Email)

	engineMock.AssertExpectations(t)
}

func TestService_Register_DuplicatePassesThrough(t *testing.T) {
	engineMock := new(EngineMock)
	service := New(&storeStub{engine: engineMock}, newMaker())

	engineMock.On("CreateUser", mock.Anything, "alice", "alice@x.com", mock.Anything).
		Return(nil, storage.ErrUsernameTaken).Once()

	_, _, err := service.Register(context.Background(), "alice", "alice@x.com", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestService_Register_StoreUnavailable(t *testing.T) {
	service := New(&storeStub{err: storage.ErrUnavailable}, newMaker())

	_, _, err := service.Register(context.Background(), "alice", "alice@x.com", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret1")
	require.NoError(t, err)

	stored := &models.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name     string
		email    string
		password string
		mockUser *models.User
		mockErr  error
		wantErr  error
	}{
		{
			name:     "valid credentials",
			email:    "alice@x.com",
			password: "secret1",
			mockUser: stored,
		},
		{
			name:     "wrong password",
			email:    "alice@x.com",
			password: "wrong-password",
			mockUser: stored,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret1",
			mockErr:  storage.ErrUserNotFound,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "storage failure is not credentials error",
			email:    "alice@x.com",
			password: "secret1",
			mockErr:  errors.New("connection reset"),
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engineMock := new(EngineMock)
			maker := newMaker()
			service := New(&storeStub{engine: engineMock}, maker)

			engineMock.On("FindUserByEmail", mock.Anything, tt.email).
				Return(tt.mockUser, tt.mockErr).Once()

			user, token, err := service.Login(context.Background(), tt.email, tt.password)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.mockErr != nil:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				assert.Equal(t, stored, user)

				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, stored.ID, claims.UserID)
				assert.Equal(t, stored.Username, claims.Username)
				assert.Equal(t, stored.Email, claims.Email)
			}
		})
	}
}
