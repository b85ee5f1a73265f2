package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
)

const adminColumns = `id, username, fullname, email, password_hash, secret_token_hash,
		refresh_token, avatar_url, cv_original_name, cv_url, cv_storage_key,
		cv_download_count, created_at, updated_at`

// CreateAdmin creates a new admin in the storage
func (s *Storage) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, fullname, email, password_hash, secret_token_hash,
			refresh_token, avatar_url, cv_original_name, cv_url, cv_storage_key,
			cv_download_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		admin.ID,
		admin.Username,
		admin.Fullname,
		admin.Email,
		admin.PasswordHash,
		admin.SecretTokenHash,
		admin.RefreshToken,
		admin.AvatarURL,
		admin.CV.OriginalName,
		admin.CV.URL,
		admin.CV.StorageKey,
		admin.CVDownloadCount,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	return nil
}

// GetAdminByID retrieves an admin by ID
func (s *Storage) GetAdminByID(ctx context.Context, adminID string) (*models.Admin, error) {
	return s.getAdmin(ctx, `WHERE id = ?`, adminID)
}

// GetAdminByLogin retrieves an admin by username or email
func (s *Storage) GetAdminByLogin(ctx context.Context, login string) (*models.Admin, error) {
	return s.getAdmin(ctx, `WHERE username = ? OR email = ?`, login, login)
}

// GetAdmin retrieves the portfolio owner (oldest admin record)
func (s *Storage) GetAdmin(ctx context.Context) (*models.Admin, error) {
	return s.getAdmin(ctx, `ORDER BY created_at ASC LIMIT 1`)
}

func (s *Storage) getAdmin(ctx context.Context, where string, args ...any) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ` + where

	admin := &models.Admin{}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&admin.ID,
		&admin.Username,
		&admin.Fullname,
		&admin.Email,
		&admin.PasswordHash,
		&admin.SecretTokenHash,
		&admin.RefreshToken,
		&admin.AvatarURL,
		&admin.CV.OriginalName,
		&admin.CV.URL,
		&admin.CV.StorageKey,
		&admin.CVDownloadCount,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// UpdateAdminRefreshToken overwrites the single refresh-token slot
func (s *Storage) UpdateAdminRefreshToken(ctx context.Context, adminID, token string) error {
	query := `UPDATE admins SET refresh_token = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, token, time.Now(), adminID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// UpdateAdminFullname changes the display name
func (s *Storage) UpdateAdminFullname(ctx context.Context, adminID, fullname string) error {
	query := `UPDATE admins SET fullname = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, fullname, time.Now(), adminID)
	if err != nil {
		return fmt.Errorf("failed to update fullname: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// UpdateAdminAvatar stores the avatar URL
func (s *Storage) UpdateAdminAvatar(ctx context.Context, adminID, url string) error {
	query := `UPDATE admins SET avatar_url = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, url, time.Now(), adminID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// UpdateAdminCV replaces the CV record
func (s *Storage) UpdateAdminCV(ctx context.Context, adminID string, cv models.CVRecord) error {
	query := `
		UPDATE admins
		SET cv_original_name = ?, cv_url = ?, cv_storage_key = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, cv.OriginalName, cv.URL, cv.StorageKey, time.Now(), adminID)
	if err != nil {
		return fmt.Errorf("failed to update cv: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// IncrementCVDownloads bumps the download counter and returns the new value
func (s *Storage) IncrementCVDownloads(ctx context.Context, adminID string) (int64, error) {
	query := `UPDATE admins SET cv_download_count = cv_download_count + 1, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, time.Now(), adminID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment cv downloads: %w", err)
	}

	if err := requireRowAffected(result, storage.ErrUserNotFound); err != nil {
		return 0, err
	}

	var count int64
	err = s.db.QueryRowContext(ctx, `SELECT cv_download_count FROM admins WHERE id = ?`, adminID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to read cv download count: %w", err)
	}

	return count, nil
}
