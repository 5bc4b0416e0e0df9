package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/review-board/internal/migrations"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// и возвращает готовое хранилище.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var db *Storage
	for i := 0; i < 10; i++ {
		db, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	require.NoError(t, migrations.Run(db.DB, "../../../migrations"), "failed to run migrations")

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}
	return db, cleanup
}

func TestStorage_CreateUser_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	u, err := db.CreateUser(ctx, "alice", "alice@example.com", "hashedpassword")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.CreatedAt.IsZero())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := db.CreateUser(ctx, "alice", "other@example.com", "hashedpassword")
		require.ErrorIs(t, err, storage.ErrUsernameTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := db.CreateUser(ctx, "bob", "alice@example.com", "hashedpassword")
		require.ErrorIs(t, err, storage.ErrEmailTaken)
	})

	t.Run("find by email", func(t *testing.T) {
		got, err := db.FindUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hashedpassword", got.PasswordHash)
	})

	t.Run("find unknown email", func(t *testing.T) {
		_, err := db.FindUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestStorage_ConcurrentRegistration_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = db.CreateUser(ctx, "carol", "carol@example.com", "hashedpassword")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent registration must win")

	var count int
	require.NoError(t, db.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = $1", "carol").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStorage_Reviews_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	u, err := db.CreateUser(ctx, "dave", "dave@example.com", "hashedpassword")
	require.NoError(t, err)

	t.Run("rating outside check constraint", func(t *testing.T) {
		_, err := db.InsertReview(ctx, u.ID, u.Username, 6, "невозможно хорошо")
		require.ErrorIs(t, err, storage.ErrInvalidRating)
	})

	var lastID int64
	for i := 1; i <= 5; i++ {
		rv, err := db.InsertReview(ctx, u.ID, u.Username, i, fmt.Sprintf("отзыв номер %d", i))
		require.NoError(t, err)
		lastID = rv.ID
	}

	t.Run("feed is newest first", func(t *testing.T) {
		reviews, err := db.ListReviews(ctx)
		require.NoError(t, err)
		require.Len(t, reviews, 5)
		assert.Equal(t, lastID, reviews[0].ID)
		for i := 1; i < len(reviews); i++ {
			assert.False(t, reviews[i].CreatedAt.After(reviews[i-1].CreatedAt))
		}
		assert.Equal(t, "dave", reviews[0].Username)
	})
}
