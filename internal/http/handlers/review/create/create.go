// Package create реализует HTTP-обработчик для создания новых отзывов.
//
// Handler принимает JSON-запрос с оценкой и комментарием, валидирует его,
// извлекает личность автора из контекста (положена JWT middleware),
// вызывает бизнес-логику создания отзыва и возвращает созданную запись.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/review-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/review-board/internal/http/response"
	"github.com/magabrotheeeer/review-board/internal/lib/sl"
	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// Request — входные данные нового отзыва.
//
// Оценка — целое в диапазоне [1,5], комментарий после обрезки пробелов —
// минимум 10 символов.
type Request struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=10"`
}

// Service описывает интерфейс бизнес-логики создания отзыва.
type Service interface {
	Create(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error)
}

// Handler управляет HTTP-запросами на создание отзывов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики отзывов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новый отзыв
// @Description Создает отзыв от имени текущего пользователя. Возвращает созданную запись.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Оценка и комментарий"
// @Success 201 {object} map[string]any "Отзыв создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании отзыва"
// @Router /api/reviews [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	log.Info("request body decoded", slog.Int("rating", req.Rating))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userID, okID := r.Context().Value(middlewarectx.UserID).(int64)
	username, okName := r.Context().Value(middlewarectx.User).(string)
	if !okID || !okName || username == "" {
		log.Error("user identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	rv, err := h.service.Create(r.Context(), userID, username, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidRating):
			log.Error("rating rejected by storage constraint", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("rating must be between 1 and 5"))
		case errors.Is(err, storage.ErrUnavailable):
			log.Error("store unavailable", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("store unavailable"))
		default:
			log.Error("failed to create review", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create review"))
		}
		return
	}

	log.Info("review created", slog.Int64("id", rv.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"message": "review created successfully",
		"review":  rv,
	})
}
