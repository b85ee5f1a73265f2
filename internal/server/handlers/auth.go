package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/echobugg/portfolio-api/internal/crypto"
	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/apierr"
	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/server/token"
	"github.com/echobugg/portfolio-api/internal/validation"
	"github.com/echobugg/portfolio-api/pkg/api"
)

// maxAvatarBytes — лимит размера загружаемого аватара
const maxAvatarBytes = 5 << 20

// FileStore абстрагирует объектное хранилище от обработчиков
type FileStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// AuthHandler обрабатывает жизненный цикл аккаунта пользователя:
// регистрация, логин, logout, ротация токенов и обновление профиля
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens *token.Service
	files  FileStore

	accessMaxAge  int // max-age cookie access-токена в секундах
	refreshMaxAge int // max-age cookie refresh-токена в секундах
}

// NewAuthHandler создает handler жизненного цикла пользователя
func NewAuthHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	tokens *token.Service,
	files FileStore,
	accessTTL, refreshTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		users:         users,
		tokens:        tokens,
		files:         files,
		accessMaxAge:  int(accessTTL.Seconds()),
		refreshMaxAge: int(refreshTTL.Seconds()),
	}
}

// Register обрабатывает POST /api/v1/user/register
// Возвращает 201 с sanitized-проекцией; токены при регистрации не выдаются
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.RegisterUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.RequireFields(map[string]string{
		"username": req.Username,
		"fullname": req.Fullname,
		"email":    req.Email,
		"password": req.Password,
	}); err != nil {
		return apierr.Validation(err.Error())
	}

	req.Username = validation.Normalize(req.Username)
	req.Email = validation.Normalize(req.Email)

	if err := validation.ValidateUsername(req.Username); err != nil {
		return apierr.Validation(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return apierr.Validation(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return apierr.Validation(err.Error())
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Fullname:     req.Fullname,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return apierr.Conflict("username or email already taken")
		}
		return err
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	respond(w, http.StatusCreated, "user registered successfully", sanitizeUser(user))
	return nil
}

// Login обрабатывает POST /api/v1/user/login
// Достаточно одного из username/email; при успехе пара токенов уходит и
// в теле ответа, и в httpOnly cookies
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	login := validation.Normalize(req.Username)
	if login == "" {
		login = validation.Normalize(req.Email)
	}
	if login == "" || req.Password == "" {
		return apierr.Validation("username or email and password are required")
	}

	user, err := h.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apierr.NotFound("account not found")
		}
		return err
	}

	if !crypto.CheckPassword(user.PasswordHash, req.Password) {
		return apierr.InvalidCredentials("invalid credentials")
	}

	pair, err := h.tokens.IssuePair(ctx, token.Account{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	setAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.accessMaxAge, h.refreshMaxAge)
	respond(w, http.StatusOK, "login successful", api.LoginData{
		Account:      sanitizeUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
	return nil
}

// Logout обрабатывает POST /api/v1/user/logout (требует аутентификации)
// Чистит слот refresh-токена и сбрасывает cookies
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := h.tokens.Revoke(ctx, user.ID); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", user.ID))

	clearAuthCookies(w)
	respond(w, http.StatusOK, "logout successful", nil)
	return nil
}

// Refresh обрабатывает POST /api/v1/user/refresh_access_token
// Токен берется из cookie, затем из тела. Предъявленный токен сверяется
// точным сравнением со слотом аккаунта и ротируется.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	presented := refreshTokenFromRequest(r)
	if presented == "" {
		return apierr.Validation("refresh token is required")
	}

	pair, acc, err := h.tokens.Refresh(ctx, presented)
	if err != nil {
		return mapRefreshError(err)
	}

	h.logger.InfoContext(ctx, "tokens refreshed", slog.String("user_id", acc.ID))

	setAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.accessMaxAge, h.refreshMaxAge)
	respond(w, http.StatusOK, "tokens refreshed", api.RefreshData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
	return nil
}

// Update обрабатывает PATCH /api/v1/user/update_user (multipart).
// Поддерживает смену fullname и загрузку аватара в объектное хранилище.
func (h *AuthHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		return apierr.Validation("invalid multipart form")
	}

	if fullname := r.FormValue("fullname"); fullname != "" {
		if err := h.users.UpdateUserFullname(ctx, user.ID, fullname); err != nil {
			return err
		}
		user.Fullname = fullname
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()

		url, uploadErr := uploadAvatar(ctx, h.files, header.Filename, file, header.Header.Get("Content-Type"))
		if uploadErr != nil {
			return uploadErr
		}

		if err := h.users.UpdateUserAvatar(ctx, user.ID, url); err != nil {
			return err
		}
		user.AvatarURL = url
	} else if !errors.Is(err, http.ErrMissingFile) {
		return apierr.Validation("invalid avatar file")
	}

	h.logger.InfoContext(ctx, "user profile updated", slog.String("user_id", user.ID))

	respond(w, http.StatusOK, "profile updated", sanitizeUser(user))
	return nil
}

// refreshTokenFromRequest ищет refresh token в cookie, затем в JSON-теле
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var req api.RefreshRequest
	if err := decodeJSON(r, &req); err == nil {
		return req.RefreshToken
	}
	return ""
}

// mapRefreshError переводит ошибки token service в ошибки API
func mapRefreshError(err error) error {
	switch {
	case errors.Is(err, token.ErrInvalidToken):
		return apierr.InvalidToken("invalid refresh token")
	case errors.Is(err, token.ErrRefreshTokenExpired):
		return apierr.RefreshTokenExpired("refresh token expired, please login again")
	case errors.Is(err, token.ErrAccountNotFound):
		return apierr.NotFound("account not found")
	default:
		return err
	}
}
