// Package mail отправляет транзакционные письма через SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config — параметры SMTP-сервера и отправителя
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string

	OwnerName   string // имя владельца портфолио для подписи
	FrontendURL string // ссылка на фронтенд в теле письма
}

// Mailer отправляет письма. Ошибки отправки не должны ронять бизнес-операцию:
// вызывающий логирует их и продолжает.
type Mailer struct {
	cfg Config
}

// New создает Mailer; если Host пуст, отправка отключена
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled сообщает, настроен ли SMTP
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendWelcome отправляет приветственное письмо автору первого сообщения
// контактной формы
func (m *Mailer) SendWelcome(toEmail, toName string) error {
	subject := fmt.Sprintf("Thanks for reaching out, %s!", toName)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", toName)
	body.WriteString("Thanks for getting in touch through my portfolio. ")
	body.WriteString("I read every message and will reply as soon as I can.\r\n\r\n")
	if m.cfg.FrontendURL != "" {
		fmt.Fprintf(&body, "In the meantime, feel free to browse my work: %s\r\n\r\n", m.cfg.FrontendURL)
	}
	fmt.Fprintf(&body, "Best,\r\n%s\r\n", m.cfg.OwnerName)

	return m.send(toEmail, subject, body.String())
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		from, to, subject, body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
