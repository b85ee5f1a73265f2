package handlers

import (
	"errors"
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

// AdminHandler обрабатывает жизненный цикл аккаунта владельца портфолио.
// Регистрация и логин дополнительно требуют секретный токен: он хешируется
// и проверяется так же, как пароль.
type AdminHandler struct {
	logger *slog.Logger
	admins storage.AdminStorage
	tokens *token.Service
	files  FileStore
	github GithubClient

	ownerSummary string // публичный текст "обо мне" из конфигурации

	accessMaxAge  int
	refreshMaxAge int
}

// NewAdminHandler создает handler жизненного цикла администратора
func NewAdminHandler(
	logger *slog.Logger,
	admins storage.AdminStorage,
	tokens *token.Service,
	files FileStore,
	github GithubClient,
	ownerSummary string,
	accessTTL, refreshTTL time.Duration,
) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		admins:        admins,
		tokens:        tokens,
		files:         files,
		github:        github,
		ownerSummary:  ownerSummary,
		accessMaxAge:  int(accessTTL.Seconds()),
		refreshMaxAge: int(refreshTTL.Seconds()),
	}
}

// Register обрабатывает POST /api/v1/admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.RegisterAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.RequireFields(map[string]string{
		"username":    req.Username,
		"fullname":    req.Fullname,
		"email":       req.Email,
		"password":    req.Password,
		"secretToken": req.SecretToken,
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

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}
	secretHash, err := crypto.HashPassword(req.SecretToken)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.Admin{
		ID:              uuid.New().String(),
		Username:        req.Username,
		Fullname:        req.Fullname,
		Email:           req.Email,
		PasswordHash:    passwordHash,
		SecretTokenHash: secretHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return apierr.Conflict("username or email already taken")
		}
		return err
	}

	h.logger.InfoContext(ctx, "admin registered",
		slog.String("admin_id", admin.ID),
		slog.String("username", admin.Username))

	respond(w, http.StatusCreated, "admin registered successfully", sanitizeAdmin(admin))
	return nil
}

// Login обрабатывает POST /api/v1/admin/login
// Помимо пароля проверяется секретный токен; ответ на неверный пароль и
// неверный секретный токен одинаков
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	login := validation.Normalize(req.Username)
	if login == "" {
		login = validation.Normalize(req.Email)
	}
	if login == "" || req.Password == "" || req.SecretToken == "" {
		return apierr.Validation("username or email, password and secretToken are required")
	}

	admin, err := h.admins.GetAdminByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apierr.NotFound("account not found")
		}
		return err
	}

	if !crypto.CheckPassword(admin.PasswordHash, req.Password) {
		return apierr.InvalidCredentials("invalid credentials")
	}
	if !crypto.CheckPassword(admin.SecretTokenHash, req.SecretToken) {
		return apierr.InvalidCredentials("invalid credentials")
	}

	pair, err := h.tokens.IssuePair(ctx, token.Account{
		ID:       admin.ID,
		Username: admin.Username,
		Email:    admin.Email,
	})
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "admin logged in", slog.String("admin_id", admin.ID))

	setAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.accessMaxAge, h.refreshMaxAge)
	respond(w, http.StatusOK, "login successful", api.LoginData{
		Account:      sanitizeAdmin(admin),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
	return nil
}

// Logout обрабатывает POST /api/v1/admin/logout (требует аутентификации)
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	admin, ok := AdminFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := h.tokens.Revoke(ctx, admin.ID); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "admin logged out", slog.String("admin_id", admin.ID))

	clearAuthCookies(w)
	respond(w, http.StatusOK, "logout successful", nil)
	return nil
}

// Refresh обрабатывает POST /api/v1/admin/refresh_access_token
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	presented := refreshTokenFromRequest(r)
	if presented == "" {
		return apierr.Validation("refresh token is required")
	}

	pair, acc, err := h.tokens.Refresh(ctx, presented)
	if err != nil {
		return mapRefreshError(err)
	}

	h.logger.InfoContext(ctx, "admin tokens refreshed", slog.String("admin_id", acc.ID))

	setAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.accessMaxAge, h.refreshMaxAge)
	respond(w, http.StatusOK, "tokens refreshed", api.RefreshData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
	return nil
}

// Update обрабатывает PATCH /api/v1/admin/update_admin (multipart)
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	admin, ok := AdminFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		return apierr.Validation("invalid multipart form")
	}

	if fullname := r.FormValue("fullname"); fullname != "" {
		if err := h.admins.UpdateAdminFullname(ctx, admin.ID, fullname); err != nil {
			return err
		}
		admin.Fullname = fullname
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()

		url, uploadErr := uploadAvatar(ctx, h.files, header.Filename, file, header.Header.Get("Content-Type"))
		if uploadErr != nil {
			return uploadErr
		}

		if err := h.admins.UpdateAdminAvatar(ctx, admin.ID, url); err != nil {
			return err
		}
		admin.AvatarURL = url
	} else if !errors.Is(err, http.ErrMissingFile) {
		return apierr.Validation("invalid avatar file")
	}

	h.logger.InfoContext(ctx, "admin profile updated", slog.String("admin_id", admin.ID))

	respond(w, http.StatusOK, "profile updated", sanitizeAdmin(admin))
	return nil
}

// Summary обрабатывает GET /api/v1/admin/summary (публичный)
// Отдает sanitized-проекцию владельца, настроенный текст "обо мне"
// и GitHub-профиль. Недоступность GitHub не роняет ответ.
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	admin, err := h.admins.GetAdmin(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apierr.NotFound("portfolio owner not found")
		}
		return err
	}

	data := map[string]any{
		"owner":   sanitizeAdmin(admin),
		"summary": h.ownerSummary,
	}

	if profile, err := h.github.Profile(ctx); err != nil {
		h.logger.WarnContext(ctx, "failed to fetch github profile for summary", slog.Any("error", err))
	} else {
		data["githubProfile"] = profile
	}

	respond(w, http.StatusOK, "owner summary", data)
	return nil
}
