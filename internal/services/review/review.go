// Package review содержит бизнес-логику ленты отзывов, включая кеширование.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// feedCacheKey — ключ кэша для полной ленты отзывов.
const feedCacheKey = "reviews:feed"

// feedCacheTTL ограничивает жизнь кэшированной ленты: лента и так
// инвалидируется при каждом новом отзыве, TTL — страховка от рассинхрона.
const feedCacheTTL = time.Minute

// Store выдаёт готовый движок хранилища или ошибку его недоступности.
type Store interface {
	Engine(ctx context.Context) (storage.Engine, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует бизнес-логику работы с отзывами.
// cache может быть nil: тогда каждый запрос ленты уходит в хранилище.
type Service struct {
	store Store
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(store Store, cache Cache, log *slog.Logger) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет отзыв от имени пользователя и инвалидирует кэш ленты.
//
// Рейтинг и комментарий уже проверены шлюзом; имя автора фиксируется
// в записи на момент создания.
func (s *Service) Create(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error) {
	const op = "services.review.Create"

	engine, err := s.store.Engine(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rv, err := engine.InsertReview(ctx, userID, username, rating, comment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new review", slog.Int64("id", rv.ID), slog.String("username", username))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, feedCacheKey); err != nil {
			s.log.Warn("failed to invalidate feed cache", slog.Any("err", err))
		}
	}
	return rv, nil
}

// List возвращает все отзывы, новые первыми, используя кэш ленты.
func (s *Service) List(ctx context.Context) ([]models.Review, error) {
	const op = "services.review.List"

	if s.cache != nil {
		var cached []models.Review
		found, err := s.cache.Get(ctx, feedCacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read feed cache", slog.Any("err", err))
		}
		if found {
			return cached, nil
		}
	}

	engine, err := s.store.Engine(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reviews, err := engine.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, feedCacheKey, reviews, feedCacheTTL); err != nil {
			s.log.Warn("failed to cache feed", slog.Any("err", err))
		}
	}
	return reviews, nil
}
