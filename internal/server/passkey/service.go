// Package passkey implements the two-step passkey registration ceremony:
// BeginRegistration issues a challenge bound to the account and stores it in
// the account's single challenge slot; FinishRegistration verifies the
// client attestation against that exact stored challenge plus the configured
// relying-party id and origin.
package passkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
)

var (
	// ErrNoChallenge — у аккаунта нет живого challenge (не выдавался,
	// уже использован или протух)
	ErrNoChallenge = errors.New("no passkey challenge for account")

	// ErrVerificationFailed — attestation не прошла проверку
	ErrVerificationFailed = errors.New("passkey verification failed")
)

// Config — параметры relying party
type Config struct {
	RPID     string
	RPName   string
	RPOrigin string
}

// Service управляет passkey-церемонией поверх одиночного слота challenge
type Service struct {
	wa    *webauthn.WebAuthn
	store storage.PasskeyStorage

	// verify разбирает и проверяет attestation; в тестах подменяется,
	// чтобы пройти успешную ветку без настоящего аутентификатора
	verify func(user webauthn.User, session webauthn.SessionData, body io.Reader) (*webauthn.Credential, error)
}

// New создает passkey service
func New(cfg Config, store storage.PasskeyStorage) (*Service, error) {
	waConfig := &webauthn.Config{
		RPID:                  cfg.RPID,
		RPDisplayName:         cfg.RPName,
		RPOrigins:             []string{cfg.RPOrigin},
		AttestationPreference: protocol.PreferNoAttestation,
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			ResidentKey:             protocol.ResidentKeyRequirementPreferred,
			UserVerification:        protocol.VerificationPreferred,
		},
	}

	wa, err := webauthn.New(waConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize webauthn: %w", err)
	}

	s := &Service{wa: wa, store: store}
	s.verify = s.verifyAttestation
	return s, nil
}

func (s *Service) verifyAttestation(user webauthn.User, session webauthn.SessionData, body io.Reader) (*webauthn.Credential, error) {
	parsed, err := protocol.ParseCredentialCreationResponseBody(body)
	if err != nil {
		return nil, err
	}
	return s.wa.CreateCredential(user, session, parsed)
}

// BeginRegistration генерирует challenge и опции регистрации для аккаунта.
// Сессия webauthn сохраняется в слот challenge, перезаписывая любой
// невостребованный предыдущий challenge.
func (s *Service) BeginRegistration(ctx context.Context, user *models.User) (*protocol.CredentialCreation, error) {
	waUser := newWebauthnUser(user, nil)

	creation, session, err := s.wa.BeginRegistration(waUser)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}

	blob, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal webauthn session: %w", err)
	}

	if err := s.store.SavePasskeyChallenge(ctx, user.ID, blob); err != nil {
		return nil, fmt.Errorf("store passkey challenge: %w", err)
	}

	return creation, nil
}

// FinishRegistration проверяет attestation против challenge, выданного
// ИМЕННО этому аккаунту, и сохраняет публичный ключ.
// Challenge потребляется: повтор того же attestation провалится.
func (s *Service) FinishRegistration(ctx context.Context, user *models.User, body io.Reader) error {
	blob, err := s.store.ConsumePasskeyChallenge(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrChallengeNotFound) {
			return ErrNoChallenge
		}
		return fmt.Errorf("consume passkey challenge: %w", err)
	}

	var session webauthn.SessionData
	if err := json.Unmarshal(blob, &session); err != nil {
		return fmt.Errorf("decode webauthn session: %w", err)
	}

	waUser := newWebauthnUser(user, nil)

	credential, err := s.verify(waUser, session, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	if err := s.store.SavePasskeyCredential(ctx, user.ID, credential.PublicKey, credential.Authenticator.SignCount); err != nil {
		return fmt.Errorf("store passkey credential: %w", err)
	}

	return nil
}

// webauthnUser адаптирует models.User к интерфейсу webauthn.User.
// User handle — username аккаунта.
type webauthnUser struct {
	user        *models.User
	credentials []webauthn.Credential
}

func newWebauthnUser(user *models.User, credentials []webauthn.Credential) *webauthnUser {
	return &webauthnUser{user: user, credentials: credentials}
}

func (u *webauthnUser) WebAuthnID() []byte {
	return []byte(u.user.ID)
}

func (u *webauthnUser) WebAuthnName() string {
	return u.user.Username
}

func (u *webauthnUser) WebAuthnDisplayName() string {
	return u.user.Username
}

func (u *webauthnUser) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}
