package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Conflict("Invalid token", nil), http.StatusConflict},
		{Forbidden("Data access not allowed"), http.StatusForbidden},
		{Unauthorized("Invalid token or session expired"), http.StatusUnauthorized},
		{UnprocessableEntity("", map[string]string{"email": "Email is not registered"}), http.StatusUnprocessableEntity},
		{NotFound("User not found"), http.StatusNotFound},
		{TooManyRequests("rate limit exceeded"), http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestDefaultMessageOnlyWithoutDetails(t *testing.T) {
	assert.Equal(t, "Conflict", Conflict("", nil).Message)

	e := UnprocessableEntity("", map[string]string{"password": "Password is incorrect"})
	assert.Empty(t, e.Message)
	assert.Equal(t, "password: Password is incorrect", e.Error())
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("jwt: signature invalid")
	wrapped := fmt.Errorf("guard: %w", Unauthorized("Invalid token or session expired").WithCause(cause))

	ae, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasStatus(wrapped, http.StatusUnauthorized))
	assert.False(t, HasStatus(errors.New("plain"), http.StatusUnauthorized))
}
