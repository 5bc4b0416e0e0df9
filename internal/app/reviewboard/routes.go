// Package reviewboard предоставляет маршруты для основного приложения.
package reviewboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/review-board/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/review-board/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/review-board/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/review-board/internal/http/handlers/health"
	reviewcreate "github.com/magabrotheeeer/review-board/internal/http/handlers/review/create"
	reviewlist "github.com/magabrotheeeer/review-board/internal/http/handlers/review/list"
	"github.com/magabrotheeeer/review-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/review-board/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/review-board/internal/services/auth"
	reviewservice "github.com/magabrotheeeer/review-board/internal/services/review"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, reviewService *reviewservice.Service, jwtMaker jwt.Maker, store *storage.Manager) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/reviews", reviewlist.New(logger, reviewService).ServeHTTP)
		r.Get("/health", health.New(logger, store).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Post("/reviews", reviewcreate.New(logger, reviewService).ServeHTTP)
			r.Get("/me", me.New(logger).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
