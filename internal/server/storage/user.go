package storage

import (
	"context"

	"github.com/echobugg/portfolio-api/internal/models"
)

// UserStorage defines the interface for user account persistence
type UserStorage interface {
	// CreateUser creates a new user. The caller hashes the password before
	// the write; plaintext never reaches this layer.
	// Returns ErrUserAlreadyExists if username or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByLogin retrieves a user whose username OR email equals login
	// Returns ErrUserNotFound if no such user exists
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// UpdateUserRefreshToken overwrites the single refresh-token slot.
	// An empty token clears the slot (logout).
	// Returns ErrUserNotFound if the user doesn't exist
	UpdateUserRefreshToken(ctx context.Context, userID, token string) error

	// UpdateUserFullname changes the display name
	UpdateUserFullname(ctx context.Context, userID, fullname string) error

	// UpdateUserAvatar stores the avatar URL
	UpdateUserAvatar(ctx context.Context, userID, url string) error
}

// PasskeyStorage defines the interface for the per-user passkey slot
type PasskeyStorage interface {
	// SavePasskeyChallenge overwrites the user's challenge slot with a new
	// webauthn session blob, invalidating any unconsumed challenge
	SavePasskeyChallenge(ctx context.Context, userID string, session []byte) error

	// ConsumePasskeyChallenge returns the stored session blob and clears the
	// slot. Returns ErrChallengeNotFound when the slot is empty or the
	// challenge is older than models.PasskeyChallengeTTL.
	ConsumePasskeyChallenge(ctx context.Context, userID string) ([]byte, error)

	// SavePasskeyCredential persists the verified public key and sign counter
	SavePasskeyCredential(ctx context.Context, userID string, publicKey []byte, signCount uint32) error

	// GetPasskey returns the user's passkey record
	// Returns ErrChallengeNotFound if no record exists
	GetPasskey(ctx context.Context, userID string) (*models.Passkey, error)
}
