package apperror

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
		{"not found", NewNotFound("profile", "123"), http.StatusNotFound},
		{"invalid input", NewInvalidInput("bad", nil), http.StatusBadRequest},
		{"validation", NewValidation(map[string]string{"firstName": "Can't be empty"}), http.StatusUnprocessableEntity},
		{"unauthorized", NewUnauthorized("no token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("not yours"), http.StatusForbidden},
		{"conflict", NewConflict("user", "email", "a@b.com"), http.StatusConflict},
		{"internal", NewInternal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("save: %w", NewNotFound("link", "x")), http.StatusNotFound},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestValidationToJSON(t *testing.T) {
	err := NewValidation(map[string]string{"email": "Invalid email address"})
	body := err.ToJSON()

	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]string{"email": "Invalid email address"}, body["fields"])
}

func TestErrorIncludesCause(t *testing.T) {
	err := NewInternal("failed to upload", errors.New("timeout"))
	assert.Contains(t, err.Error(), "timeout")
	assert.True(t, errors.Is(err, ErrInternal))
}
