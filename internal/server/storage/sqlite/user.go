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

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, fullname, email, password_hash, refresh_token, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.RefreshToken,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Дубликат username или email
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, userID)
}

// GetUserByLogin retrieves a user by username or email
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getUser(ctx, `WHERE username = ? OR email = ?`, login, login)
}

func (s *Storage) getUser(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `
		SELECT id, username, fullname, email, password_hash, refresh_token, avatar_url, created_at, updated_at
		FROM users
	` + where

	user := &models.User{}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Fullname,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUserRefreshToken overwrites the single refresh-token slot
func (s *Storage) UpdateUserRefreshToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, token, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// UpdateUserFullname changes the display name
func (s *Storage) UpdateUserFullname(ctx context.Context, userID, fullname string) error {
	query := `UPDATE users SET fullname = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, fullname, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update fullname: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// UpdateUserAvatar stores the avatar URL
func (s *Storage) UpdateUserAvatar(ctx context.Context, userID, url string) error {
	query := `UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, url, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	return requireRowAffected(result, storage.ErrUserNotFound)
}

// requireRowAffected нормализует UPDATE по несуществующей записи в notFound
func requireRowAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
