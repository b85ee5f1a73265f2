package handlers

import (
	"context"
	"io"

	"github.com/echobugg/portfolio-api/internal/server/apierr"
	"github.com/echobugg/portfolio-api/internal/server/filestore"
)

// uploadAvatar кладет аватар в объектное хранилище под случайным ключом
func uploadAvatar(ctx context.Context, files FileStore, filename string, body io.Reader, contentType string) (string, error) {
	key := filestore.RandomKey("avatars", filename)

	url, err := files.Upload(ctx, key, body, contentType)
	if err != nil {
		return "", apierr.Upload("failed to upload avatar")
	}

	return url, nil
}
