package models

import "time"

// ContactThread — переписка с посетителем, ключ — уникальный email.
// Первое сообщение с данного email создает тред, последующие добавляются
// в упорядоченный список Messages (append-only).
type ContactThread struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Messages  []ContactMessage `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ContactMessage — одно сообщение треда
type ContactMessage struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}
