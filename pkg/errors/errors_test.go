package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("client", nil), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusBadRequest},
		{Conflict("slot taken", nil), http.StatusConflict},
		{InvalidTransition("completed is terminal"), http.StatusConflict},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("role too low"), http.StatusForbidden},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("appointment", errors.New("sql: no rows"))
	assert.Equal(t, "appointment not found: sql: no rows", err.Error())

	bare := Forbidden("role too low")
	assert.Equal(t, "role too low", bare.Error())
}

func TestAsUnwrapsWrappedChains(t *testing.T) {
	inner := Conflict("slot taken", nil)
	wrapped := fmt.Errorf("booking failed: %w", inner)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrConflict, appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidTransition("no"))
	assert.True(t, IsCode(err, ErrInvalidTransition))
	assert.False(t, IsCode(err, ErrNotFound))
	assert.False(t, IsCode(nil, ErrNotFound))
}
