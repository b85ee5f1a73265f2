package handlers

import (
	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/pkg/api"
)

// sanitizeUser строит проекцию пользователя без чувствительных полей.
// Hash пароля и refresh token не покидают сервер ни при каких условиях.
func sanitizeUser(user *models.User) api.SanitizedUser {
	return api.SanitizedUser{
		ID:        user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// sanitizeAdmin строит проекцию администратора без чувствительных полей
func sanitizeAdmin(admin *models.Admin) api.SanitizedAdmin {
	return api.SanitizedAdmin{
		ID:              admin.ID,
		Username:        admin.Username,
		Fullname:        admin.Fullname,
		Email:           admin.Email,
		AvatarURL:       admin.AvatarURL,
		CVURL:           admin.CV.URL,
		CVDownloadCount: admin.CVDownloadCount,
		CreatedAt:       admin.CreatedAt,
		UpdatedAt:       admin.UpdatedAt,
	}
}
