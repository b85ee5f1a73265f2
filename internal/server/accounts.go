package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/server/token"
)

// userAccountStore адаптирует UserStorage к token.AccountStore.
// Переводит storage.ErrUserNotFound в token.ErrAccountNotFound,
// чтобы token service не зависел от пакета storage.
type userAccountStore struct {
	users storage.UserStorage
}

func (s *userAccountStore) FindAccount(ctx context.Context, id string) (token.Account, string, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return token.Account{}, "", token.ErrAccountNotFound
		}
		return token.Account{}, "", fmt.Errorf("failed to find user account: %w", err)
	}

	return token.Account{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, user.RefreshToken, nil
}

func (s *userAccountStore) SetRefreshToken(ctx context.Context, id, tok string) error {
	return s.users.UpdateUserRefreshToken(ctx, id, tok)
}

// adminAccountStore — тот же адаптер для admin-варианта
type adminAccountStore struct {
	admins storage.AdminStorage
}

func (s *adminAccountStore) FindAccount(ctx context.Context, id string) (token.Account, string, error) {
	admin, err := s.admins.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return token.Account{}, "", token.ErrAccountNotFound
		}
		return token.Account{}, "", fmt.Errorf("failed to find admin account: %w", err)
	}

	return token.Account{
		ID:       admin.ID,
		Username: admin.Username,
		Email:    admin.Email,
	}, admin.RefreshToken, nil
}

func (s *adminAccountStore) SetRefreshToken(ctx context.Context, id, tok string) error {
	return s.admins.UpdateAdminRefreshToken(ctx, id, tok)
}
