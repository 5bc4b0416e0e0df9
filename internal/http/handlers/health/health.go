// Package health реализует HTTP-обработчик проверки состояния сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/review-board/internal/storage"
)

// StateReporter сообщает текущее состояние подключения к хранилищу.
type StateReporter interface {
	State() storage.State
}

// Handler обрабатывает HTTP-запросы проверки состояния.
type Handler struct {
	log   *slog.Logger
	store StateReporter
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store StateReporter) *Handler {
	return &Handler{
		log:   log,
		store: store,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Description Возвращает состояние подключения к хранилищу. 503 если хранилище недоступно.
// @Tags Service
// @Produce  json
// @Success 200 {object} map[string]string "Сервис работает"
// @Failure 503 {object} map[string]string "Хранилище недоступно"
// @Router /api/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	state := h.store.State()
	status := "ok"
	if state != storage.StateReady {
		status = "degraded"
		log.Warn("health check with degraded storage", slog.String("storage", state.String()))
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, map[string]string{
		"status":  status,
		"storage": state.String(),
	})
}
