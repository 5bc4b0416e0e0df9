package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// Код PostgreSQL для нарушения ограничения CHECK.
const checkViolationCode = "23514"

// InsertReview сохраняет отзыв и возвращает запись с присвоенным id.
//
// Диапазон оценки уже проверен шлюзом; ограничение CHECK в схеме
// дублирует проверку на уровне хранилища.
func (s *Storage) InsertReview(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error) {
	const op = "storage.postgres.InsertReview"

	rv := &models.Review{
		UserID:   userID,
		Username: username,
		Rating:   rating,
		Comment:  comment,
	}
	query := `INSERT INTO reviews (user_id, username, rating, comment)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at;`
	if err := s.DB.QueryRowContext(ctx, query, userID, username, rating, comment).
		Scan(&rv.ID, &rv.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidRating)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rv, nil
}

// ListReviews возвращает все отзывы, новые первыми.
func (s *Storage) ListReviews(ctx context.Context) ([]models.Review, error) {
	const op = "storage.postgres.ListReviews"

	query := `SELECT id, user_id, username, rating, comment, created_at
			  FROM reviews
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err = rows.Scan(&rv.ID, &rv.UserID, &rv.Username, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
