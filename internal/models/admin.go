package models

import "time"

// Admin представляет владельца портфолио.
// Форма совпадает с User, дополнительно хранится хеш секретного токена,
// запись о загруженном CV и счетчик скачиваний.
//
// RefreshToken — единственный слот на аккаунт: новая выдача перезаписывает
// предыдущее значение, т.е. поддерживается ровно одна активная сессия.
type Admin struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Fullname        string    `json:"fullname"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	SecretTokenHash string    `json:"-"` // bcrypt хеш секретного токена (проверяется на привилегированных операциях)
	RefreshToken    string    `json:"-"`
	AvatarURL       string    `json:"avatar_url"`
	CV              CVRecord  `json:"cv"`
	CVDownloadCount int64     `json:"cv_download_count"` // монотонный счетчик скачиваний
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CVRecord описывает загруженный CV в объектном хранилище
type CVRecord struct {
	OriginalName string `json:"original_name"` // имя файла при загрузке
	URL          string `json:"url"`           // публичный URL объекта
	StorageKey   string `json:"storage_key"`   // ключ объекта в бакете
}
