package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/review-board/internal/models"
	"github.com/magabrotheeeer/review-board/internal/storage"
)

// InsertReview сохраняет отзыв и возвращает запись с присвоенным id.
func (s *Storage) InsertReview(ctx context.Context, userID int64, username string, rating int, comment string) (*models.Review, error) {
	const op = "storage.sqlite.InsertReview"

	rv := &models.Review{
		UserID:    userID,
		Username:  username,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO reviews (user_id, username, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rv.UserID, rv.Username, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "check") {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidRating)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rv.ID = id
	return rv, nil
}

// ListReviews возвращает все отзывы, новые первыми.
func (s *Storage) ListReviews(ctx context.Context) ([]models.Review, error) {
	const op = "storage.sqlite.ListReviews"

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, username, rating, comment, created_at
		FROM reviews
		ORDER BY created_at DESC, id DESC`)
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
