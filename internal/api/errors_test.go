package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, expected: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, expected: http.StatusUnauthorized},
		{name: "invalid refresh token", err: auth.ErrInvalidRefreshToken, expected: http.StatusUnauthorized},
		{name: "wrong token type", err: auth.ErrWrongTokenType, expected: http.StatusUnauthorized},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, expected: http.StatusUnauthorized},
		{name: "user not found", err: store.ErrUserNotFound, expected: http.StatusNotFound},
		{name: "script request not found", err: store.ErrScriptRequestNotFound, expected: http.StatusNotFound},
		{name: "script not ready", err: store.ErrScriptNotReady, expected: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, expected: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, expected: http.StatusBadRequest},
		{name: "validation error", err: domain.ErrValidation, expected: http.StatusBadRequest},
		{name: "invalid id", err: domain.ErrInvalidID, expected: http.StatusBadRequest},
		{name: "invalid generator config", err: generation.ErrInvalidConfig, expected: http.StatusBadRequest},
		{name: "content blocked", err: generation.ErrContentBlocked, expected: http.StatusUnprocessableEntity},
		{name: "transient generation failure", err: generation.ErrTransientFailure, expected: http.StatusServiceUnavailable},
		{name: "unknown error", err: errors.New("something else"), expected: http.StatusInternalServerError},
		{
			name:     "wrapped errors unwrap",
			err:      fmt.Errorf("loading request: %w", store.ErrScriptRequestNotFound),
			expected: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Invalid token", GetSafeErrorMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "Script request not found", GetSafeErrorMessage(store.ErrScriptRequestNotFound))
	assert.Equal(t, "Script is not ready yet", GetSafeErrorMessage(store.ErrScriptNotReady))
	assert.Equal(t, "Email already exists", GetSafeErrorMessage(store.ErrEmailExists))

	// Internal details never leak through the safe message.
	leaky := errors.New("pq: connection to postgres://user:hunter2@db failed")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))
}
