// Package storage определяет контракт хранилища сервиса отзывов
// и машину состояний его инициализации.
//
// Один и тот же контракт реализуют два движка: сетевой PostgreSQL
// и встраиваемый файловый SQLite. Логика API от движка не зависит.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/review-board/internal/models"
)

// Ошибки хранилища. Нарушения уникальности различаются по полю,
// чтобы клиент получил точное сообщение.
var (
	// ErrUsernameTaken возвращается при попытке занять существующее имя пользователя.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken возвращается при попытке занять существующий email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUserNotFound возвращается, когда пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRating возвращается движком при оценке вне диапазона [1,5].
	ErrInvalidRating = errors.New("rating out of range")
	// ErrUnavailable возвращается, когда хранилище не сконфигурировано
	// или соединение с ним не удалось восстановить.
	ErrUnavailable = errors.New("storage unavailable")
)

// Engine описывает контракт движка хранилища.
//
// Уникальность username и email обеспечивается атомарно на уровне
// ограничений самого движка, а не проверкой перед вставкой: две
// конкурентные регистрации одной личности не могут пройти обе.
type Engine interface {
	// CreateUser атомарно сохраняет нового пользователя и возвращает запись
	// с присвоенным id и временем создания. При конфликте уникальности
	// возвращает ErrUsernameTaken либо ErrEmailTaken.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)

	// FindUserByEmail возвращает пользователя по email или ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// InsertReview сохраняет отзыв и возвращает запись с присвоенным id
	// и временем создания. Диапазон оценки дополнительно контролируется
	// ограничением CHECK в схеме.
	InsertReview(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error)

	// ListReviews возвращает все отзывы, новые первыми.
	ListReviews(ctx context.Context) ([]models.Review, error)

	// Ping проверяет соединение с хранилищем.
	Ping(ctx context.Context) error

	// Close закрывает пул соединений.
	Close() error
}
