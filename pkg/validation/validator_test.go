package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
	Username string `json:"username" validate:"omitempty,min=6,max=50,username"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Aa1!aaaa":   true,
		"Aa1!aaa":    false,
		"aa1!aaaa":   false,
		"AA1!AAAA":   false,
		"Aa!aaaaa":   false,
		"Aa1aaaaa":   false,
		"P@ssw0rd99": true,
	}
	for pwd, want := range cases {
		assert.Equal(t, want, StrongPassword(pwd), pwd)
	}
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	v := newValidator()
	err := v.Struct(signupForm{Email: "nope", Password: "weak", Username: "Bad Name!"})

	d := ToDetails(err)
	assert.Equal(t, "email must be an email", d["email"])
	assert.Equal(t, "password is not strong enough", d["password"])
	assert.Equal(t, "username may only contain letters, numbers, underscores and dashes", d["username"])
}

func TestToDetails_Valid(t *testing.T) {
	v := newValidator()
	err := v.Struct(signupForm{Email: "jane@example.com", Password: "Aa1!aaaa", Username: "jane_doe"})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(err))
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var out map[string]any
	err := json.Unmarshal([]byte("{"), &out)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestPasswordByteLimit(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"pwdbytes,strongpwd"`
	}
	v := newValidator()

	assert.NoError(t, v.Struct(form{Password: "Aa1!" + strings.Repeat("a", 68)}))

	// 64 runes but 124 bytes
	err := v.Struct(form{Password: "Aa1!" + strings.Repeat("é", 60)})
	assert.Equal(t, map[string]string{"password": "password must be at most 72 bytes long"}, ToDetails(err))
}
