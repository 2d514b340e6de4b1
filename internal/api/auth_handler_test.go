package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
)

// mockUserStore is an in-memory store.UserStore keyed by email.
type mockUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{byEmail: make(map[string]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	stored := *user
	stored.HashedPassword = "hashed:" + user.Password
	stored.Password = ""
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// stubJWTService issues predictable tokens.
type stubJWTService struct {
	generateErr error
	validateErr error
	claims      *auth.Claims
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "access-" + userID.String(), nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func (s *stubJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "refresh-" + userID.String(), nil
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

// prefixVerifier matches the mock store's fake hashing scheme.
type prefixVerifier struct{}

func (v prefixVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errors.New("password mismatch")
}

func newAuthHandler(users *mockUserStore, jwt *stubJWTService) *AuthHandler {
	return NewAuthHandler(users, jwt, prefixVerifier{}, 30)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthHandler(users, &stubJWTService{})

	rec := postJSON(t, handler.Register, "/api/auth/register",
		`{"email":"learner@example.com","password":"correct-horse-battery"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.Equal(t, "access-"+resp.UserID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+resp.UserID.String(), resp.RefreshToken)
	assert.NotEmpty(t, resp.ExpiresAt)

	// The store holds the hash, never the plaintext.
	stored, err := users.GetByEmail(context.Background(), "learner@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthHandler(users, &stubJWTService{})
	body := `{"email":"learner@example.com","password":"correct-horse-battery"}`

	rec := postJSON(t, handler.Register, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Register, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	handler := newAuthHandler(newMockUserStore(), &stubJWTService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"email":`},
		{name: "unknown field", body: `{"email":"a@b.com","password":"correct-horse-battery","admin":true}`},
		{name: "missing email", body: `{"password":"correct-horse-battery"}`},
		{name: "invalid email", body: `{"email":"not-an-email","password":"correct-horse-battery"}`},
		{name: "short password", body: `{"email":"a@b.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := postJSON(t, handler.Register, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthHandler(users, &stubJWTService{})

	rec := postJSON(t, handler.Register, "/api/auth/register",
		`{"email":"learner@example.com","password":"correct-horse-battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Login, "/api/auth/login",
		`{"email":"learner@example.com","password":"correct-horse-battery"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthHandler(users, &stubJWTService{})

	rec := postJSON(t, handler.Register, "/api/auth/register",
		`{"email":"learner@example.com","password":"correct-horse-battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unknown email and wrong password are indistinguishable.
	rec = postJSON(t, handler.Login, "/api/auth/login",
		`{"email":"ghost@example.com","password":"correct-horse-battery"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, handler.Login, "/api/auth/login",
		`{"email":"learner@example.com","password":"wrong-password-here"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &stubJWTService{claims: &auth.Claims{UserID: userID, TokenType: "refresh"}}
	handler := newAuthHandler(newMockUserStore(), jwt)

	rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh",
		`{"refresh_token":"refresh-`+userID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "access-"+userID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+userID.String(), resp.RefreshToken)
}

func TestRefreshTokenRejected(t *testing.T) {
	t.Parallel()

	jwt := &stubJWTService{validateErr: auth.ErrExpiredRefreshToken}
	handler := newAuthHandler(newMockUserStore(), jwt)

	rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh",
		`{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp))
	assert.Equal(t, "Invalid refresh token", resp.Error)
}
