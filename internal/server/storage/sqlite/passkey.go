package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
)

// SavePasskeyChallenge overwrites the user's challenge slot.
// Upsert: первая выдача создает запись, повторная перезаписывает challenge,
// делая предыдущий невостребованный challenge недействительным.
func (s *Storage) SavePasskeyChallenge(ctx context.Context, userID string, session []byte) error {
	now := time.Now()
	query := `
		INSERT INTO passkeys (user_id, challenge, sign_count, challenge_issued_at, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			challenge = excluded.challenge,
			challenge_issued_at = excluded.challenge_issued_at,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, userID, session, now, now, now); err != nil {
		return fmt.Errorf("failed to save passkey challenge: %w", err)
	}

	return nil
}

// ConsumePasskeyChallenge returns the stored session blob and clears the slot
func (s *Storage) ConsumePasskeyChallenge(ctx context.Context, userID string) ([]byte, error) {
	pk, err := s.GetPasskey(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Протухший challenge эквивалентен отсутствующему
	if pk.ChallengeExpired(time.Now()) {
		return nil, storage.ErrChallengeNotFound
	}

	query := `UPDATE passkeys SET challenge = NULL, challenge_issued_at = NULL, updated_at = ? WHERE user_id = ?`
	if _, err := s.db.ExecContext(ctx, query, time.Now(), userID); err != nil {
		return nil, fmt.Errorf("failed to consume passkey challenge: %w", err)
	}

	return pk.Challenge, nil
}

// SavePasskeyCredential persists the verified public key and sign counter
func (s *Storage) SavePasskeyCredential(ctx context.Context, userID string, publicKey []byte, signCount uint32) error {
	query := `UPDATE passkeys SET public_key = ?, sign_count = ?, updated_at = ? WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, publicKey, signCount, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to save passkey credential: %w", err)
	}

	return requireRowAffected(result, storage.ErrChallengeNotFound)
}

// GetPasskey returns the user's passkey record
func (s *Storage) GetPasskey(ctx context.Context, userID string) (*models.Passkey, error) {
	query := `
		SELECT user_id, challenge, public_key, sign_count, challenge_issued_at, created_at, updated_at
		FROM passkeys
		WHERE user_id = ?
	`

	pk := &models.Passkey{}
	var challenge, publicKey []byte
	var issuedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&pk.UserID,
		&challenge,
		&publicKey,
		&pk.SignCount,
		&issuedAt,
		&pk.CreatedAt,
		&pk.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get passkey: %w", err)
	}

	pk.Challenge = challenge
	pk.PublicKey = publicKey
	if issuedAt.Valid {
		pk.ChallengeIssuedAt = issuedAt.Time
	}

	if len(pk.Challenge) == 0 && len(pk.PublicKey) == 0 {
		return nil, storage.ErrChallengeNotFound
	}

	return pk, nil
}
