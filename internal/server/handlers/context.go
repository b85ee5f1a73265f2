package handlers

import (
	"context"

	"github.com/echobugg/portfolio-api/internal/models"
)

// contextKey — приватный тип ключей контекста, исключает коллизии
type contextKey string

const (
	userKey  contextKey = "auth_user"
	adminKey contextKey = "auth_admin"
)

// WithUser кладет аутентифицированного пользователя в контекст
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext достает пользователя, положенного auth middleware
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithAdmin кладет аутентифицированного администратора в контекст
func WithAdmin(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// AdminFromContext достает администратора, положенного auth middleware
func AdminFromContext(ctx context.Context) (*models.Admin, bool) {
	admin, ok := ctx.Value(adminKey).(*models.Admin)
	return admin, ok
}
