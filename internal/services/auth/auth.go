// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/review-board/internal/lib/jwt"
	"github.com/magabrotheeeer/review-board/internal/lib/password"
	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Ошибка одна на оба случая: ответ не раскрывает, существует ли email.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Store выдаёт готовый движок хранилища или ошибку его недоступности.
type Store interface {
	Engine(ctx context.Context) (storage.Engine, error)
}

// Service отвечает за регистрацию, вход и выпуск JWT.
type Service struct {
	store    Store
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(store Store, jwtMaker jwt.Maker) *Service {
	return &Service{
		store:    store,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт пользователя с хэшированием пароля и сразу выпускает токен.
//
// Токен выпускается по сохранённой записи, поэтому claims всегда совпадают
// с тем, что лежит в хранилище, включая присвоенный id.
func (s *Service) Register(ctx context.Context, username, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	engine, err := s.store.Engine(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := engine.CreateUser(ctx, username, email, hashed)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Login проверяет пароль пользователя по email и выпускает JWT.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	engine, err := s.store.Engine(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := engine.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}
