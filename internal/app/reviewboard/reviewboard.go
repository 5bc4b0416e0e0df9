// Package reviewboard собирает приложение доски отзывов:
// хранилище, кэш, сервисы, маршруты и HTTP-сервер.
package reviewboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/review-board/internal/cache"
	"github.com/magabrotheeeer/review-board/internal/config"
	"github.com/magabrotheeeer/review-board/internal/lib/jwt"
	"github.com/magabrotheeeer/review-board/internal/lib/sl"
	"github.com/magabrotheeeer/review-board/internal/migrations"
	authservice "github.com/magabrotheeeer/review-board/internal/services/auth"
	reviewservice "github.com/magabrotheeeer/review-board/internal/services/review"
	"github.com/magabrotheeeer/review-board/internal/storage"
	"github.com/magabrotheeeer/review-board/internal/storage/postgres"
	"github.com/magabrotheeeer/review-board/internal/storage/sqlite"
)

// App — собранное приложение доски отзывов.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *storage.Manager
	cache  *cache.Cache
}

// New собирает приложение по конфигурации.
//
// Недоступное при старте хранилище не фатально: менеджер остаётся
// в деградированном состоянии, сервис отвечает "store unavailable"
// и пробует переподключиться при следующем запросе. Redis тоже
// необязателен: без него лента отзывов ходит в хранилище напрямую.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.reviewboard.New"

	if cfg.IsDefaultSecret() {
		logger.Warn("JWT secret key is the built-in default, tokens are forgeable; set JWT_SECRET_KEY")
	}

	store := storage.NewManager(openEngine(cfg, logger), logger)
	if err := store.Init(ctx); err != nil {
		logger.Error("storage unavailable at startup, continuing degraded", sl.Err(err))
	}

	var cacheRedis *cache.Cache
	if cfg.AddressRedis != "" {
		var err error
		cacheRedis, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis unavailable, feed cache disabled", sl.Err(err))
			cacheRedis = nil
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(store, jwtMaker)

	var feedCache reviewservice.Cache
	if cacheRedis != nil {
		feedCache = cacheRedis
	}
	reviewService := reviewservice.New(store, feedCache, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, reviewService, jwtMaker, store)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		cache:  cacheRedis,
	}, nil
}

// openEngine возвращает фабрику движка хранилища по настройкам,
// либо nil при пустой строке подключения.
func openEngine(cfg *config.Config, logger *slog.Logger) func(ctx context.Context) (storage.Engine, error) {
	if cfg.StorageConnectionString == "" {
		logger.Warn("storage connection string is empty, starting degraded")
		return nil
	}

	switch cfg.Driver {
	case "sqlite":
		return func(ctx context.Context) (storage.Engine, error) {
			return sqlite.New(ctx, cfg.StorageConnectionString)
		}
	default:
		return func(ctx context.Context) (storage.Engine, error) {
			db, err := postgres.New(ctx, cfg.StorageConnectionString)
			if err != nil {
				return nil, err
			}
			if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("app.reviewboard.openEngine: %w", err)
			}
			return db, nil
		}
	}
}

// Run запускает HTTP-сервер и блокируется до его остановки
// либо до отмены контекста, после чего гасит сервер и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		if a.cache != nil {
			if closeErr := a.cache.Close(); closeErr != nil {
				a.logger.Error("failed to close redis", sl.Err(closeErr))
			}
		}
		return err
	}
}
