// Package server собирает и запускает HTTP-сервер портфолио:
// хранилище, объектное хранилище файлов, token-сервисы обоих вариантов
// аккаунта, passkey-сервис и маршрутизацию.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echobugg/portfolio-api/internal/server/config"
	"github.com/echobugg/portfolio-api/internal/server/filestore"
	"github.com/echobugg/portfolio-api/internal/server/github"
	"github.com/echobugg/portfolio-api/internal/server/handlers"
	"github.com/echobugg/portfolio-api/internal/server/mail"
	"github.com/echobugg/portfolio-api/internal/server/middleware"
	"github.com/echobugg/portfolio-api/internal/server/passkey"
	"github.com/echobugg/portfolio-api/internal/server/storage/sqlite"
	"github.com/echobugg/portfolio-api/internal/server/token"
)

// shutdownTimeout — сколько ждем завершения активных запросов
const shutdownTimeout = 10 * time.Second

// App — собранный сервер портфолио
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	storage *sqlite.Storage
	server  *http.Server
}

// NewApp инициализирует все зависимости и собирает маршрутизацию
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	files, err := filestore.New(ctx, filestore.Config{
		BaseEndpoint: cfg.S3BaseEndpoint,
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	// два независимых token service: у пользователя и владельца свои
	// слоты refresh-токенов, но общие секреты и сроки жизни
	userTokens := token.NewService(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.AppName,
	}, &userAccountStore{users: store})

	adminTokens := token.NewService(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.AppName,
	}, &adminAccountStore{admins: store})

	passkeys, err := passkey.New(passkey.Config{
		RPID:     cfg.PasskeyRPID,
		RPName:   cfg.PasskeyRPName,
		RPOrigin: cfg.PasskeyOrigin,
	}, store)
	if err != nil {
		return nil, fmt.Errorf("init passkey service: %w", err)
	}

	gh := github.New(cfg.GithubProfileURL, cfg.GithubReposURL, cfg.GithubToken, cfg.AppName)

	mailer := mail.New(mail.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.MailFrom,
		OwnerName:   cfg.OwnerName,
		FrontendURL: cfg.FrontendURL,
	})

	authHandler := handlers.NewAuthHandler(logger, store, userTokens, files, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	adminHandler := handlers.NewAdminHandler(logger, store, adminTokens, files, gh, cfg.OwnerSummary, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	portfolioHandler := handlers.NewPortfolioHandler(logger, store, store, files, gh, mailer)
	passkeyHandler := handlers.NewPasskeyHandler(logger, passkeys)
	healthHandler := handlers.NewHealthHandler(cfg.AppName)

	userAuth := middleware.UserAuth(logger, userTokens, store)
	adminAuth := middleware.AdminAuth(logger, adminTokens, store)

	mux := http.NewServeMux()

	// user
	mux.Handle("POST /api/v1/user/register", handlers.Wrap(logger, authHandler.Register))
	mux.Handle("POST /api/v1/user/login", handlers.Wrap(logger, authHandler.Login))
	mux.Handle("POST /api/v1/user/logout", userAuth(handlers.Wrap(logger, authHandler.Logout)))
	mux.Handle("POST /api/v1/user/refresh_access_token", handlers.Wrap(logger, authHandler.Refresh))
	mux.Handle("PATCH /api/v1/user/update_user", userAuth(handlers.Wrap(logger, authHandler.Update)))
	mux.Handle("GET /api/v1/user/get_passkey_challenge", userAuth(handlers.Wrap(logger, passkeyHandler.GetChallenge)))
	mux.Handle("POST /api/v1/user/verify_passkey", userAuth(handlers.Wrap(logger, passkeyHandler.Verify)))

	// admin
	mux.Handle("POST /api/v1/admin/register", handlers.Wrap(logger, adminHandler.Register))
	mux.Handle("POST /api/v1/admin/login", handlers.Wrap(logger, adminHandler.Login))
	mux.Handle("POST /api/v1/admin/logout", adminAuth(handlers.Wrap(logger, adminHandler.Logout)))
	mux.Handle("POST /api/v1/admin/refresh_access_token", handlers.Wrap(logger, adminHandler.Refresh))
	mux.Handle("PATCH /api/v1/admin/update_admin", adminAuth(handlers.Wrap(logger, adminHandler.Update)))
	mux.Handle("GET /api/v1/admin/summary", handlers.Wrap(logger, adminHandler.Summary))

	// portfolio
	mux.Handle("GET /api/v1/portfolio/githubProjects", handlers.Wrap(logger, portfolioHandler.GithubProjects))
	mux.Handle("POST /api/v1/portfolio/sendMessage", handlers.Wrap(logger, portfolioHandler.SendMessage))
	mux.Handle("POST /api/v1/portfolio/upload-cv", adminAuth(handlers.Wrap(logger, portfolioHandler.UploadCV)))
	mux.Handle("GET /api/v1/portfolio/download-cv", handlers.Wrap(logger, portfolioHandler.DownloadCV))

	mux.Handle("GET /api/v1/health", handlers.Wrap(logger, healthHandler.Health))

	var handler http.Handler = mux
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)

	return &App{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run запускает сервер и блокируется до SIGINT/SIGTERM или отмены ctx
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.String("addr", app.cfg.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// Close освобождает ресурсы приложения
func (app *App) Close() error {
	return app.storage.Close()
}
