// Package me реализует HTTP-обработчик получения текущей личности.
//
// Личность берётся из claims токена, положенных middleware в контекст;
// хранилище не опрашивается.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/review-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/review-board/internal/http/response"
)

// Handler обрабатывает HTTP-запросы на получение текущей личности.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает личность из claims предъявленного токена.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, okID := r.Context().Value(middlewarectx.UserID).(int64)
	username, okName := r.Context().Value(middlewarectx.User).(string)
	email, okEmail := r.Context().Value(middlewarectx.Email).(string)
	if !okID || !okName || !okEmail {
		log.Error("claims not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	render.JSON(w, r, map[string]any{
		"user": map[string]any{
			"id":       userID,
			"username": username,
			"email":    email,
		},
	})
}
