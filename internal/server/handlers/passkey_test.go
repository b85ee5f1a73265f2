package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/passkey"
	"github.com/echobugg/portfolio-api/internal/server/storage"
)

// mockPasskeyStorage — одиночный слот challenge в памяти
type mockPasskeyStorage struct {
	challenges  map[string][]byte
	credentials map[string][]byte
	saved       int // сколько раз перезаписывался слот
}

func newMockPasskeyStorage() *mockPasskeyStorage {
	return &mockPasskeyStorage{
		challenges:  make(map[string][]byte),
		credentials: make(map[string][]byte),
	}
}

func (m *mockPasskeyStorage) SavePasskeyChallenge(ctx context.Context, userID string, session []byte) error {
	m.challenges[userID] = session
	m.saved++
	return nil
}

func (m *mockPasskeyStorage) ConsumePasskeyChallenge(ctx context.Context, userID string) ([]byte, error) {
	blob, ok := m.challenges[userID]
	if !ok {
		return nil, storage.ErrChallengeNotFound
	}
	delete(m.challenges, userID)
	return blob, nil
}

func (m *mockPasskeyStorage) SavePasskeyCredential(ctx context.Context, userID string, publicKey []byte, signCount uint32) error {
	m.credentials[userID] = publicKey
	return nil
}

func (m *mockPasskeyStorage) GetPasskey(ctx context.Context, userID string) (*models.Passkey, error) {
	blob, ok := m.challenges[userID]
	if !ok {
		return nil, storage.ErrChallengeNotFound
	}
	return &models.Passkey{
		UserID:            userID,
		Challenge:         blob,
		ChallengeIssuedAt: time.Now(),
	}, nil
}

func setupPasskeyHandler(t *testing.T) (*PasskeyHandler, *mockPasskeyStorage) {
	t.Helper()

	store := newMockPasskeyStorage()
	svc, err := passkey.New(passkey.Config{
		RPID:     "localhost",
		RPName:   "Portfolio",
		RPOrigin: "http://localhost:3000",
	}, store)
	require.NoError(t, err)

	return NewPasskeyHandler(setupTestLogger(), svc), store
}

func passkeyUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestGetChallenge_IssuesAndStoresSession(t *testing.T) {
	handler, store := setupPasskeyHandler(t)
	user := passkeyUser()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/get_passkey_challenge", nil)
	req = req.WithContext(WithUser(req.Context(), user))

	w := httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.GetChallenge).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w.Body)
	require.True(t, resp.Status)
	assert.NotNil(t, resp.Data)

	// webauthn-сессия сохранена в слот аккаунта
	assert.NotEmpty(t, store.challenges[user.ID])
}

func TestGetChallenge_OverwritesPrevious(t *testing.T) {
	handler, store := setupPasskeyHandler(t)
	user := passkeyUser()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/get_passkey_challenge", nil)
		req = req.WithContext(WithUser(req.Context(), user))

		w := httptest.NewRecorder()
		Wrap(setupTestLogger(), handler.GetChallenge).ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// слот один: повторная выдача перезаписала первую
	assert.Equal(t, 2, store.saved)
	assert.Len(t, store.challenges, 1)
}

func TestGetChallenge_Unauthenticated(t *testing.T) {
	handler, _ := setupPasskeyHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/get_passkey_challenge", nil)

	w := httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.GetChallenge).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerify_NoChallenge(t *testing.T) {
	handler, _ := setupPasskeyHandler(t)
	user := passkeyUser()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/verify_passkey", bytes.NewReader([]byte("{}")))
	req = req.WithContext(WithUser(req.Context(), user))

	w := httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.Verify).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerify_BadAttestation(t *testing.T) {
	handler, store := setupPasskeyHandler(t)
	user := passkeyUser()

	// сначала выдаем challenge
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/user/get_passkey_challenge", nil)
	getReq = getReq.WithContext(WithUser(getReq.Context(), user))
	w := httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.GetChallenge).ServeHTTP(w, getReq)
	require.Equal(t, http.StatusOK, w.Code)

	// мусорное attestation не проходит проверку
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/verify_passkey", bytes.NewReader([]byte(`{"id":"x"}`)))
	req = req.WithContext(WithUser(req.Context(), user))

	w = httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.Verify).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// challenge при этом потреблен: повторная попытка дает 404
	assert.Empty(t, store.challenges)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/user/verify_passkey", bytes.NewReader([]byte(`{"id":"x"}`)))
	req = req.WithContext(WithUser(req.Context(), user))

	w = httptest.NewRecorder()
	Wrap(setupTestLogger(), handler.Verify).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
