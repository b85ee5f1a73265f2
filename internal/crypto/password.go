package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost — фиксированный work factor для bcrypt
const HashCost = 10

// HashPassword хеширует пароль (или секретный токен) через bcrypt.
// Вызывается ЯВНО на каждом пути записи, где клиент прислал plaintext —
// никакого неявного перехеширования при несвязанных обновлениях записи.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword проверяет plaintext против сохраненного bcrypt хеша.
// Несовпадение — нормальный boolean-исход, не ошибка.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
