package api

import "time"

// RegisterUserRequest представляет запрос на регистрацию пользователя
type RegisterUserRequest struct {
	Username string `json:"username"` // username пользователя
	Fullname string `json:"fullname"` // полное имя
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // plaintext пароль, хешируется до записи
}

// RegisterAdminRequest представляет запрос на регистрацию администратора
type RegisterAdminRequest struct {
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	SecretToken string `json:"secretToken"` // секретный токен, хешируется аналогично паролю
}

// LoginRequest представляет запрос на аутентификацию.
// Достаточно одного из username/email. SecretToken обязателен
// только для admin-варианта.
type LoginRequest struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password"`
	SecretToken string `json:"secretToken,omitempty"`
}

// RefreshRequest — refresh token в теле, если не пришел в cookie
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SanitizedUser — проекция пользователя без чувствительных полей
// (password hash, refresh token никогда не попадают в ответ)
type SanitizedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SanitizedAdmin — проекция администратора без чувствительных полей
type SanitizedAdmin struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Fullname        string    `json:"fullname"`
	Email           string    `json:"email"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	CVURL           string    `json:"cv_url,omitempty"`
	CVDownloadCount int64     `json:"cv_download_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LoginData — тело успешного логина: аккаунт плюс пара токенов
type LoginData struct {
	Account      any    `json:"account"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // время жизни access token в секундах
}

// RefreshData — тело ответа на ротацию токенов
type RefreshData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// SendMessageRequest представляет сообщение контактной формы
type SendMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
