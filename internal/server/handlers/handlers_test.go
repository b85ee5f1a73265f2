package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/server/token"
	"github.com/echobugg/portfolio-api/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // id -> User
	createError error
	getError    error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUserRefreshToken(ctx context.Context, userID, tok string) error {
	user, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.RefreshToken = tok
	return nil
}

func (m *mockUserStorage) UpdateUserFullname(ctx context.Context, userID, fullname string) error {
	user, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.Fullname = fullname
	return nil
}

func (m *mockUserStorage) UpdateUserAvatar(ctx context.Context, userID, url string) error {
	user, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.AvatarURL = url
	return nil
}

// mockAdminStorage is a mock implementation of AdminStorage for testing
type mockAdminStorage struct {
	admins      map[string]*models.Admin // id -> Admin
	createError error
}

func newMockAdminStorage() *mockAdminStorage {
	return &mockAdminStorage{admins: make(map[string]*models.Admin)}
}

func (m *mockAdminStorage) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.admins {
		if existing.Username == admin.Username || existing.Email == admin.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.admins[admin.ID] = admin
	return nil
}

func (m *mockAdminStorage) GetAdminByID(ctx context.Context, adminID string) (*models.Admin, error) {
	admin, ok := m.admins[adminID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return admin, nil
}

func (m *mockAdminStorage) GetAdminByLogin(ctx context.Context, login string) (*models.Admin, error) {
	for _, admin := range m.admins {
		if admin.Username == login || admin.Email == login {
			return admin, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockAdminStorage) GetAdmin(ctx context.Context) (*models.Admin, error) {
	var oldest *models.Admin
	for _, admin := range m.admins {
		if oldest == nil || admin.CreatedAt.Before(oldest.CreatedAt) {
			oldest = admin
		}
	}
	if oldest == nil {
		return nil, storage.ErrUserNotFound
	}
	return oldest, nil
}

func (m *mockAdminStorage) UpdateAdminRefreshToken(ctx context.Context, adminID, tok string) error {
	admin, ok := m.admins[adminID]
	if !ok {
		return storage.ErrUserNotFound
	}
	admin.RefreshToken = tok
	return nil
}

func (m *mockAdminStorage) UpdateAdminFullname(ctx context.Context, adminID, fullname string) error {
	admin, ok := m.admins[adminID]
	if !ok {
		return storage.ErrUserNotFound
	}
	admin.Fullname = fullname
	return nil
}

func (m *mockAdminStorage) UpdateAdminAvatar(ctx context.Context, adminID, url string) error {
	admin, ok := m.admins[adminID]
	if !ok {
		return storage.ErrUserNotFound
	}
	admin.AvatarURL = url
	return nil
}

func (m *mockAdminStorage) UpdateAdminCV(ctx context.Context, adminID string, cv models.CVRecord) error {
	admin, ok := m.admins[adminID]
	if !ok {
		return storage.ErrUserNotFound
	}
	admin.CV = cv
	return nil
}

func (m *mockAdminStorage) IncrementCVDownloads(ctx context.Context, adminID string) (int64, error) {
	admin, ok := m.admins[adminID]
	if !ok {
		return 0, storage.ErrUserNotFound
	}
	admin.CVDownloadCount++
	return admin.CVDownloadCount, nil
}

// mockContactStorage is a mock implementation of ContactStorage for testing
type mockContactStorage struct {
	threads     map[string]*models.ContactThread // email -> thread
	appendError error
}

func newMockContactStorage() *mockContactStorage {
	return &mockContactStorage{threads: make(map[string]*models.ContactThread)}
}

func (m *mockContactStorage) AppendMessage(ctx context.Context, name, email, message string) (bool, error) {
	if m.appendError != nil {
		return false, m.appendError
	}
	thread, ok := m.threads[email]
	created := false
	if !ok {
		thread = &models.ContactThread{Name: name, Email: email}
		m.threads[email] = thread
		created = true
	}
	thread.Messages = append(thread.Messages, models.ContactMessage{Message: message, Time: time.Now()})
	return created, nil
}

func (m *mockContactStorage) GetThreadByEmail(ctx context.Context, email string) (*models.ContactThread, error) {
	thread, ok := m.threads[email]
	if !ok {
		return nil, storage.ErrThreadNotFound
	}
	return thread, nil
}

// mockFileStore — in-memory объектное хранилище
type mockFileStore struct {
	objects     map[string][]byte // key -> content
	uploadError error
	deleted     []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{objects: make(map[string][]byte)}
}

func (m *mockFileStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.uploadError != nil {
		return "", m.uploadError
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = content
	return "https://files.test/" + key, nil
}

func (m *mockFileStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockFileStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://files.test/presigned/" + key, nil
}

// mockGithub отдает фиксированные ответы либо ошибку
type mockGithub struct {
	profile json.RawMessage
	repos   json.RawMessage
	err     error
}

func (m *mockGithub) Profile(ctx context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockGithub) Repos(ctx context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.repos, nil
}

// mockMailer фиксирует отправленные письма
type mockMailer struct {
	enabled bool
	sendErr error
	sentTo  []string
}

func (m *mockMailer) Enabled() bool { return m.enabled }

func (m *mockMailer) SendWelcome(toEmail, toName string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, toEmail)
	return nil
}

// userAccounts адаптирует mockUserStorage к token.AccountStore
type userAccounts struct {
	store *mockUserStorage
}

func (a *userAccounts) FindAccount(ctx context.Context, id string) (token.Account, string, error) {
	user, err := a.store.GetUserByID(ctx, id)
	if err != nil {
		return token.Account{}, "", token.ErrAccountNotFound
	}
	return token.Account{ID: user.ID, Username: user.Username, Email: user.Email}, user.RefreshToken, nil
}

func (a *userAccounts) SetRefreshToken(ctx context.Context, id, tok string) error {
	return a.store.UpdateUserRefreshToken(ctx, id, tok)
}

// adminAccounts — адаптер для admin-варианта
type adminAccounts struct {
	store *mockAdminStorage
}

func (a *adminAccounts) FindAccount(ctx context.Context, id string) (token.Account, string, error) {
	admin, err := a.store.GetAdminByID(ctx, id)
	if err != nil {
		return token.Account{}, "", token.ErrAccountNotFound
	}
	return token.Account{ID: admin.ID, Username: admin.Username, Email: admin.Email}, admin.RefreshToken, nil
}

func (a *adminAccounts) SetRefreshToken(ctx context.Context, id, tok string) error {
	return a.store.UpdateAdminRefreshToken(ctx, id, tok)
}

func newTestTokenService(accounts token.AccountStore) *token.Service {
	return token.NewService(token.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "portfolio-test",
	}, accounts)
}

// decodeEnvelope разбирает конверт ответа из рекордера
func decodeEnvelope(t *testing.T, body io.Reader) api.Response {
	t.Helper()

	var resp api.Response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}
