package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/echobugg/portfolio-api/internal/crypto"
	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/apierr"
	"github.com/echobugg/portfolio-api/internal/server/filestore"
	"github.com/echobugg/portfolio-api/internal/server/github"
	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/validation"
	"github.com/echobugg/portfolio-api/pkg/api"
)

// maxCVBytes — лимит размера загружаемого CV
const maxCVBytes = 10 << 20

// GithubClient абстрагирует GitHub-прокси от обработчиков
type GithubClient interface {
	Profile(ctx context.Context) (json.RawMessage, error)
	Repos(ctx context.Context) (json.RawMessage, error)
}

// Mailer абстрагирует отправку писем от обработчиков
type Mailer interface {
	Enabled() bool
	SendWelcome(toEmail, toName string) error
}

// PortfolioHandler обрабатывает публичную часть портфолио: GitHub-прокси,
// контактную форму и CV владельца
type PortfolioHandler struct {
	logger   *slog.Logger
	admins   storage.AdminStorage
	contacts storage.ContactStorage
	files    FileStore
	github   GithubClient
	mailer   Mailer
}

// NewPortfolioHandler создает handler публичной части портфолио
func NewPortfolioHandler(
	logger *slog.Logger,
	admins storage.AdminStorage,
	contacts storage.ContactStorage,
	files FileStore,
	gh GithubClient,
	mailer Mailer,
) *PortfolioHandler {
	return &PortfolioHandler{
		logger:   logger,
		admins:   admins,
		contacts: contacts,
		files:    files,
		github:   gh,
		mailer:   mailer,
	}
}

// GithubProjects обрабатывает GET /api/v1/portfolio/githubProjects
// Проксирует профиль и список репозиториев владельца как есть
func (h *PortfolioHandler) GithubProjects(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profile, err := h.github.Profile(ctx)
	if err != nil {
		return mapGithubError(err)
	}

	repos, err := h.github.Repos(ctx)
	if err != nil {
		return mapGithubError(err)
	}

	respond(w, http.StatusOK, "github projects", map[string]any{
		"profile": profile,
		"repos":   repos,
	})
	return nil
}

// SendMessage обрабатывает POST /api/v1/portfolio/sendMessage
// Один тред на email: первое сообщение создает тред и триггерит
// приветственное письмо, последующие дописываются в тот же тред.
// Провал отправки письма не роняет операцию.
func (h *PortfolioHandler) SendMessage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.RequireFields(map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	}); err != nil {
		return apierr.Validation(err.Error())
	}

	email := validation.Normalize(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return apierr.Validation(err.Error())
	}

	created, err := h.contacts.AppendMessage(ctx, strings.TrimSpace(req.Name), email, req.Message)
	if err != nil {
		return err
	}

	if created && h.mailer.Enabled() {
		if err := h.mailer.SendWelcome(email, strings.TrimSpace(req.Name)); err != nil {
			h.logger.WarnContext(ctx, "failed to send welcome email",
				slog.String("email", email), slog.Any("error", err))
		}
	}

	h.logger.InfoContext(ctx, "contact message received",
		slog.String("email", email), slog.Bool("new_thread", created))

	respond(w, http.StatusOK, "message sent", nil)
	return nil
}

// UploadCV обрабатывает POST /api/v1/portfolio/upload-cv (multipart).
// Требует admin-аутентификацию ПЛЮС секретный токен в форме; провал
// токена — Forbidden. Старый CV удаляется из хранилища перед загрузкой
// нового: у владельца всегда не больше одного CV.
func (h *PortfolioHandler) UploadCV(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	admin, ok := AdminFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := r.ParseMultipartForm(maxCVBytes); err != nil {
		return apierr.Validation("invalid multipart form")
	}

	if err := verifySecretToken(admin.SecretTokenHash, r.FormValue("secretToken")); err != nil {
		return err
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		return apierr.Validation("cv file is required")
	}
	defer file.Close()

	if oldKey := admin.CV.StorageKey; oldKey != "" {
		if err := h.files.Delete(ctx, oldKey); err != nil {
			// замена продолжается, осиротевший объект остается в бакете
			h.logger.WarnContext(ctx, "failed to delete previous cv",
				slog.String("key", oldKey), slog.Any("error", err))
		}
	}

	key := filestore.RandomKey("cv", header.Filename)
	url, err := h.files.Upload(ctx, key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return apierr.Upload("failed to upload cv")
	}

	cv := models.CVRecord{
		OriginalName: header.Filename,
		URL:          url,
		StorageKey:   key,
	}

	if err := h.admins.UpdateAdminCV(ctx, admin.ID, cv); err != nil {
		return err
	}
	admin.CV = cv

	h.logger.InfoContext(ctx, "cv uploaded",
		slog.String("admin_id", admin.ID), slog.String("key", key))

	respond(w, http.StatusOK, "cv uploaded successfully", sanitizeAdmin(admin))
	return nil
}

// DownloadCV обрабатывает GET /api/v1/portfolio/download-cv (публичный)
// Инкрементирует счетчик скачиваний и отдает временную ссылку
func (h *PortfolioHandler) DownloadCV(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	admin, err := h.admins.GetAdmin(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apierr.NotFound("portfolio owner not found")
		}
		return err
	}

	if admin.CV.StorageKey == "" {
		return apierr.NotFound("cv not found")
	}

	count, err := h.admins.IncrementCVDownloads(ctx, admin.ID)
	if err != nil {
		return err
	}

	url, err := h.files.PresignGet(ctx, admin.CV.StorageKey)
	if err != nil {
		return apierr.Upload("failed to generate download link")
	}

	respond(w, http.StatusOK, "cv download link", map[string]any{
		"url":           url,
		"originalName":  admin.CV.OriginalName,
		"downloadCount": count,
	})
	return nil
}

// verifySecretToken сверяет предъявленный секретный токен с хешем
func verifySecretToken(hash, presented string) error {
	if presented == "" {
		return apierr.Validation("secretToken is required")
	}
	if !crypto.CheckPassword(hash, presented) {
		return apierr.Forbidden("invalid secret token")
	}
	return nil
}

// mapGithubError переводит ответ GitHub в ошибку API.
// 404 от GitHub остается 404; прочие 4xx схлопываются в 400;
// все остальное — generic 500.
func mapGithubError(err error) error {
	var statusErr *github.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch {
	case statusErr.Code == http.StatusNotFound:
		return apierr.NotFound("github resource not found")
	case statusErr.Code >= 400 && statusErr.Code < 500:
		return apierr.Validation("github rejected the request")
	default:
		return apierr.Internal("github is unavailable")
	}
}
