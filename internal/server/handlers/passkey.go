package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/echobugg/portfolio-api/internal/server/apierr"
	"github.com/echobugg/portfolio-api/internal/server/passkey"
)

// PasskeyHandler обрабатывает двухшаговую регистрацию passkey.
// Оба шага требуют аутентифицированного пользователя: challenge привязан
// к аккаунту из контекста, а не из тела запроса.
type PasskeyHandler struct {
	logger   *slog.Logger
	passkeys *passkey.Service
}

// NewPasskeyHandler создает handler passkey-церемонии
func NewPasskeyHandler(logger *slog.Logger, passkeys *passkey.Service) *PasskeyHandler {
	return &PasskeyHandler{logger: logger, passkeys: passkeys}
}

// GetChallenge обрабатывает GET /api/v1/user/get_passkey_challenge
// Выдает challenge и опции регистрации; невостребованный предыдущий
// challenge перезаписывается
func (h *PasskeyHandler) GetChallenge(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	creation, err := h.passkeys.BeginRegistration(ctx, user)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "passkey challenge issued", slog.String("user_id", user.ID))

	respond(w, http.StatusOK, "passkey challenge", creation)
	return nil
}

// Verify обрабатывает POST /api/v1/user/verify_passkey
// Проверяет attestation против challenge, выданного именно этому аккаунту
func (h *PasskeyHandler) Verify(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := h.passkeys.FinishRegistration(ctx, user, r.Body); err != nil {
		switch {
		case errors.Is(err, passkey.ErrNoChallenge):
			return apierr.NotFound("no passkey challenge for this account")
		case errors.Is(err, passkey.ErrVerificationFailed):
			return apierr.Validation("passkey verification failed")
		default:
			return err
		}
	}

	h.logger.InfoContext(ctx, "passkey registered", slog.String("user_id", user.ID))

	respond(w, http.StatusCreated, "passkey registered successfully", nil)
	return nil
}
