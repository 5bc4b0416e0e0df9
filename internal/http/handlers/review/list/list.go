// Package list реализует HTTP-обработчик ленты отзывов.
//
// Лента открыта всем посетителям и возвращается целиком,
// новые отзывы первыми.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/review-board/internal/http/response"
	"github.com/magabrotheeeer/review-board/internal/lib/sl"
	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// Service описывает интерфейс бизнес-логики ленты отзывов.
type Service interface {
	List(ctx context.Context) ([]models.Review, error)
}

// Handler обрабатывает HTTP-запросы на чтение ленты отзывов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Лента отзывов
// @Description Возвращает все отзывы, новые первыми. Авторизация не требуется.
// @Tags Reviews
// @Produce  json
// @Success 200 {array} models.Review "Лента отзывов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении отзывов"
// @Router /api/reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	reviews, err := h.service.List(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnavailable):
			log.Error("store unavailable", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("store unavailable"))
		default:
			log.Error("failed to list reviews", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list reviews"))
		}
		return
	}

	log.Info("reviews listed", slog.Int("count", len(reviews)))
	render.JSON(w, r, reviews)
}
