package models

import "time"

// Review представляет отзыв пользователя с оценкой и комментарием.
//
// Username — денормализованная копия имени автора, зафиксированная
// в момент создания отзыва. Оценка всегда в диапазоне [1,5].
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`  // Ссылка на автора отзыва
	Username  string    `json:"username"` // Имя автора на момент создания
	Rating    int       `json:"rating"`   // Оценка от 1 до 5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
