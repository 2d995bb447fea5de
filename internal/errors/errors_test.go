package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid email", ErrInvalidEmail, http.StatusBadRequest},
		{"invalid password", ErrInvalidPassword, http.StatusBadRequest},
		{"invalid name", ErrInvalidName, http.StatusBadRequest},
		{"empty message", ErrEmptyMessage, http.StatusBadRequest},
		{"invalid message", ErrInvalidMessage, http.StatusBadRequest},
		{"invalid creds", ErrInvalidCredentials, http.StatusUnauthorized},
		{"email registered", ErrEmailRegistered, http.StatusConflict},
		{"access token", ErrInvalidAccessToken, http.StatusUnauthorized},
		{"refresh token", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", ErrNotFound), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestWrapError_KeepsCodeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrInternal, cause)

	assert.Equal(t, CodeInternal, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "internal server error", GetErrorMessage(err))
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidMessage, "custom")

	assert.Equal(t, "custom", err.Message)
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeForbidden, GetErrorCode(ErrForbidden))
	assert.Equal(t, CodeInternal, GetErrorCode(errors.New("boom")))
	assert.Equal(t, "boom", GetErrorMessage(errors.New("boom")))
	assert.Equal(t, "", GetErrorMessage(nil))
}

func TestValidationMessages(t *testing.T) {
	assert.Equal(t, "Password must be between 8 and 40 characters long", ErrInvalidPassword.Message)
	assert.Equal(t, "Name must be between 3 and 60 characters long", ErrInvalidName.Message)
	assert.Equal(t, "the message should between 10 and 250 characters", ErrInvalidMessage.Message)
}
