package storage

import (
	"context"

	"github.com/echobugg/portfolio-api/internal/models"
)

// AdminStorage defines the interface for admin account persistence.
// The portfolio has a single owner, but the contract does not enforce it:
// GetAdmin returns the first (oldest) admin for owner-scoped operations
// like CV management.
type AdminStorage interface {
	// CreateAdmin creates a new admin. Password and secret token arrive
	// pre-hashed. Returns ErrUserAlreadyExists on duplicate username/email.
	CreateAdmin(ctx context.Context, admin *models.Admin) error

	// GetAdminByID retrieves an admin by ID
	// Returns ErrUserNotFound if the admin doesn't exist
	GetAdminByID(ctx context.Context, adminID string) (*models.Admin, error)

	// GetAdminByLogin retrieves an admin whose username OR email equals login
	GetAdminByLogin(ctx context.Context, login string) (*models.Admin, error)

	// GetAdmin retrieves the portfolio owner (oldest admin record)
	// Returns ErrUserNotFound if no admin is registered
	GetAdmin(ctx context.Context) (*models.Admin, error)

	// UpdateAdminRefreshToken overwrites the single refresh-token slot;
	// empty token clears it
	UpdateAdminRefreshToken(ctx context.Context, adminID, token string) error

	// UpdateAdminFullname changes the display name
	UpdateAdminFullname(ctx context.Context, adminID, fullname string) error

	// UpdateAdminAvatar stores the avatar URL
	UpdateAdminAvatar(ctx context.Context, adminID, url string) error

	// UpdateAdminCV replaces the CV record
	UpdateAdminCV(ctx context.Context, adminID string, cv models.CVRecord) error

	// IncrementCVDownloads bumps the monotonic download counter and returns
	// the new value
	IncrementCVDownloads(ctx context.Context, adminID string) (int64, error)
}
