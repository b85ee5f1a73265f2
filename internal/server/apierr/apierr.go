// Package apierr defines the tagged error type every handler fails with.
// One error shape, one mapping to HTTP: the response-writing adapter in
// handlers consumes it exactly once per request.
package apierr

import (
	"errors"
	"net/http"
)

// Kind классифицирует ошибку независимо от HTTP-кода
type Kind string

const (
	KindValidation          Kind = "validation"
	KindConflict            Kind = "conflict"
	KindNotFound            Kind = "not_found"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindInvalidToken        Kind = "invalid_token"
	KindRefreshTokenExpired Kind = "refresh_token_expired"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindUploadFailure       Kind = "upload_failure"
	KindInternal            Kind = "internal"
)

// Error — типизированная ошибка API: вид, HTTP-статус, сообщение и
// опциональные данные для конверта ответа
type Error struct {
	Kind       Kind
	HTTPStatus int
	Message    string
	Data       any
}

func (e *Error) Error() string {
	return e.Message
}

// New создает ошибку с произвольным видом и статусом
func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, HTTPStatus: status, Message: message}
}

// Validation — отсутствующие или пустые обязательные поля
func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

// Conflict — дубликат username/email
func Conflict(message string) *Error {
	return New(KindConflict, http.StatusConflict, message)
}

// NotFound — аккаунт, CV или тред не найден
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

// InvalidCredentials — неверный пароль или секретный токен
func InvalidCredentials(message string) *Error {
	return New(KindInvalidCredentials, http.StatusUnauthorized, message)
}

// InvalidToken — отсутствующий, битый, протухший или неподписанный токен
func InvalidToken(message string) *Error {
	return New(KindInvalidToken, http.StatusUnauthorized, message)
}

// RefreshTokenExpired — криптографически валидный, но вытесненный
// ротацией refresh token
func RefreshTokenExpired(message string) *Error {
	return New(KindRefreshTokenExpired, http.StatusBadRequest, message)
}

// Unauthorized — запрос без контекста аутентификации
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, message)
}

// Forbidden — провал проверки секретного токена на привилегированной операции
func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message)
}

// Upload — внешнее хранилище отвергло загрузку
func Upload(message string) *Error {
	return New(KindUploadFailure, http.StatusBadGateway, message)
}

// Internal — неклассифицированная ошибка; наружу уходит generic-сообщение
func Internal(message string) *Error {
	return New(KindInternal, http.StatusInternalServerError, message)
}

// From извлекает *Error из цепочки err; все прочее нормализуется в
// Internal с generic-сообщением, чтобы не утекали внутренние детали
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal server error")
}
