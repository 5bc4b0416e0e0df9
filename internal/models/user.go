// Package models содержит доменные модели сервиса отзывов:
// пользователя и отзыв. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Пароль никогда не хранится в открытом виде, только bcrypt-хэш.
// Запись не изменяется после создания.
type User struct {
	ID           int64     `json:"id"`       // Уникальный числовой идентификатор
	Username     string    `json:"username"` // Имя пользователя (уникальное)
	Email        string    `json:"email"`    // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`        // Хэш пароля пользователя
	CreatedAt    time.Time `json:"created_at"`
}
