package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/echobugg/portfolio-api/internal/server/handlers"
	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/server/token"
	"github.com/echobugg/portfolio-api/pkg/api"
)

// UserAuth создает middleware аутентификации пользователя.
// Access token ищется сначала в cookie, затем в заголовке Authorization.
// Любой провал (нет токена, битый, протухший, аккаунт удален) дает
// одинаковый 401, без уточнения причины.
func UserAuth(logger *slog.Logger, tokens *token.Service, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractAccessToken(r)
			if tokenString == "" {
				logger.WarnContext(r.Context(), "missing access token", slog.String("path", r.URL.Path))
				rejectUnauthorized(w)
				return
			}

			claims, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid access token", slog.Any("error", err))
				rejectUnauthorized(w)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				logger.WarnContext(r.Context(), "token subject not found",
					slog.String("user_id", claims.UserID), slog.Any("error", err))
				rejectUnauthorized(w)
				return
			}

			ctx := handlers.WithUser(r.Context(), user)

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", user.ID), slog.String("username", user.Username))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth — тот же контракт для admin-варианта, со своим token service
// и своим хранилищем
func AdminAuth(logger *slog.Logger, tokens *token.Service, admins storage.AdminStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractAccessToken(r)
			if tokenString == "" {
				logger.WarnContext(r.Context(), "missing access token", slog.String("path", r.URL.Path))
				rejectUnauthorized(w)
				return
			}

			claims, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid access token", slog.Any("error", err))
				rejectUnauthorized(w)
				return
			}

			admin, err := admins.GetAdminByID(r.Context(), claims.UserID)
			if err != nil {
				logger.WarnContext(r.Context(), "token subject not found",
					slog.String("admin_id", claims.UserID), slog.Any("error", err))
				rejectUnauthorized(w)
				return
			}

			ctx := handlers.WithAdmin(r.Context(), admin)

			logger.DebugContext(ctx, "admin authenticated",
				slog.String("admin_id", admin.ID), slog.String("username", admin.Username))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAccessToken ищет access token: cookie -> Bearer header
func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(handlers.AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// rejectUnauthorized пишет единый 401-конверт для всех провалов аутентификации
func rejectUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.NewResponse(http.StatusUnauthorized, "invalid or missing access token", nil))
}
