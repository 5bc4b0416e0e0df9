// Package jwt реализует выпуск и проверку JWT токенов с пользовательскими claim полями.
//
// Токен самодостаточен: проверка чисто криптографическая и не обращается
// к хранилищу, поэтому отозвать выданный токен нельзя — он действует до
// истечения срока, даже если учётная запись изменилась или удалена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен с id, username и email пользователя.
	GenerateToken(id int64, username, email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
