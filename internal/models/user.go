package models

import "time"

// User представляет пользователя портфолио в системе
type User struct {
	ID           string    `json:"id"`         // UUID пользователя
	Username     string    `json:"username"`   // уникальный username (trim + lowercase)
	Fullname     string    `json:"fullname"`   // полное имя
	Email        string    `json:"email"`      // уникальный email (trim + lowercase)
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, никогда не возвращается клиенту
	RefreshToken string    `json:"-"`          // последний выданный refresh token (единственный слот)
	AvatarURL    string    `json:"avatar_url"` // URL аватара в объектном хранилище
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
}

// Passkey — одиночный слот passkey-учетных данных пользователя.
// Challenge хранит сериализованную webauthn-сессию между выдачей challenge
// и верификацией attestation. Невостребованный challenge протухает через
// PasskeyChallengeTTL; срок проверяется при чтении, фоновой очистки нет.
type Passkey struct {
	UserID            string    `json:"user_id"`
	Challenge         []byte    `json:"-"`          // webauthn SessionData (JSON blob)
	PublicKey         []byte    `json:"public_key"` // публичный ключ после успешной верификации
	SignCount         uint32    `json:"sign_count"`
	ChallengeIssuedAt time.Time `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PasskeyChallengeTTL — срок жизни невостребованного challenge
const PasskeyChallengeTTL = 30 * 24 * time.Hour

// ChallengeExpired сообщает, протух ли текущий challenge слота
func (p *Passkey) ChallengeExpired(now time.Time) bool {
	if len(p.Challenge) == 0 {
		return true
	}
	return now.After(p.ChallengeIssuedAt.Add(PasskeyChallengeTTL))
}
