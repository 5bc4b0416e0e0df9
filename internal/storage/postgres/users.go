package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// Код PostgreSQL для нарушения ограничения уникальности.
const uniqueViolationCode = "23505"

// CreateUser сохраняет нового пользователя и возвращает запись с присвоенным id.
//
// Уникальность username и email обеспечивается ограничениями UNIQUE в схеме:
// конкурентная регистрация той же личности завершится здесь ошибкой,
// а не второй записью.
func (s *Storage) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	const op = "storage.postgres.CreateUser"

	u := &models.User{
		Username: username,
		Email:    email,
	}
	query := `INSERT INTO users (username, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING id, password_hash, created_at;`
	if err := s.DB.QueryRowContext(ctx, query, username, email, passwordHash).
		Scan(&u.ID, &u.PasswordHash, &u.CreatedAt); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, fmt.Errorf("%s: %w", op, mapped)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindUserByEmail возвращает пользователя по его email.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.FindUserByEmail"

	query := `SELECT id, username, email, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// mapUniqueViolation переводит нарушение уникальности в доменную ошибку,
// различая по имени ограничения, какое именно поле занято.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return storage.ErrUsernameTaken
	case strings.Contains(pgErr.ConstraintName, "email"):
		return storage.ErrEmailTaken
	default:
		return nil
	}
}
