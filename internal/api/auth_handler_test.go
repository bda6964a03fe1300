package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// memUserStore is an in-memory store.UserStore for handler tests.
type memUserStore struct {
	users map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*domain.User)}
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := s.users[user.Email]; exists {
		return store.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	user.Password = ""

	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func newAuthHandler(t *testing.T) (*AuthHandler, *memUserStore) {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes:        30,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	users := newMemUserStore()
	return NewAuthHandler(users, jwtService, auth.NewBcryptVerifier()), users
}

func decodeAuthResponse(t *testing.T, body []byte) AuthResponse {
	t.Helper()
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestAuthRegisterAndLogin(t *testing.T) {
	handler, _ := newAuthHandler(t)

	body := `{"email":"alice@example.com","name":"Alice","password":"s3cret-pass"}`
	w := doRequest(handler.Register, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeAuthResponse(t, w.Body.Bytes())
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	w = doRequest(handler.Login, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	login := decodeAuthResponse(t, w.Body.Bytes())
	assert.Equal(t, resp.UserID, login.UserID)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	handler, _ := newAuthHandler(t)

	body := `{"email":"bob@example.com","name":"Bob","password":"s3cret-pass"}`
	w := doRequest(handler.Register, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(handler.Register, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthRegisterValidation(t *testing.T) {
	handler, _ := newAuthHandler(t)

	cases := []string{
		`{"email":"not-an-email","name":"X","password":"s3cret-pass"}`,
		`{"email":"x@example.com","name":"","password":"s3cret-pass"}`,
		`{"email":"x@example.com","name":"X","password":"short"}`,
	}
	for _, body := range cases {
		w := doRequest(handler.Register, http.MethodPost, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	handler, _ := newAuthHandler(t)

	w := doRequest(handler.Register, http.MethodPost, "/api/auth/register",
		`{"email":"carol@example.com","name":"Carol","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(handler.Login, http.MethodPost, "/api/auth/login",
		`{"email":"carol@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(handler.Login, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRefresh(t *testing.T) {
	handler, _ := newAuthHandler(t)

	w := doRequest(handler.Register, http.MethodPost, "/api/auth/register",
		`{"email":"dave@example.com","name":"Dave","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeAuthResponse(t, w.Body.Bytes())

	w = doRequest(handler.Refresh, http.MethodPost, "/api/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, registered.RefreshToken))
	require.Equal(t, http.StatusOK, w.Code)

	refreshed := decodeAuthResponse(t, w.Body.Bytes())
	assert.Equal(t, registered.UserID, refreshed.UserID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	w = doRequest(handler.Refresh, http.MethodPost, "/api/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, registered.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
