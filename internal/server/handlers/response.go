// Package handlers реализует HTTP-обработчики портфолио-сервера.
//
// Каждый обработчик возвращает error; адаптер Wrap превращает его в
// единый конверт ответа {statusCode, status, message, data} ровно один раз
// на запрос. Успешные ответы обработчик пишет сам через respond.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/echobugg/portfolio-api/internal/server/apierr"
	"github.com/echobugg/portfolio-api/pkg/api"
)

const (
	// AccessTokenCookie — имя cookie с access-токеном
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie — имя cookie с refresh-токеном
	RefreshTokenCookie = "refreshToken"
)

// HandlerFunc — обработчик, возвращающий ошибку вместо записи ее в ответ
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap адаптирует HandlerFunc к http.HandlerFunc: любая возвращенная
// ошибка нормализуется через apierr.From и пишется в конверт ответа
func Wrap(logger *slog.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		apiErr := apierr.From(err)

		if apiErr.Kind == apierr.KindInternal {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		} else {
			logger.WarnContext(r.Context(), "request rejected",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("kind", string(apiErr.Kind)),
				slog.String("message", apiErr.Message))
		}

		writeJSON(w, apiErr.HTTPStatus, api.NewResponse(apiErr.HTTPStatus, apiErr.Message, apiErr.Data))
	}
}

// respond пишет успешный ответ в конверте
func respond(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, api.NewResponse(statusCode, message, data))
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON парсит тело запроса; ошибка парсинга — Validation
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.Validation("invalid request body")
	}
	return nil
}

// setAuthCookies выставляет httpOnly cookie с парой токенов.
// maxAge в секундах, раздельно для access и refresh.
func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   accessMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   refreshMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearAuthCookies сбрасывает обе cookie (logout)
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}
