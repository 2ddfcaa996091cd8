package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileJSON_UnsetFieldsAreNull(t *testing.T) {
	u := &User{ID: "u1", Email: "jane@example.com", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}

	b, err := json.Marshal(u.Profile())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	for _, k := range []string{"name", "username", "avatar", "verified_at"} {
		v, ok := got[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
	assert.Equal(t, "u1", got["id"])
}

func TestProfileJSON_RoundTripsSetFields(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Profile{ID: "u1", Email: "jane@example.com", Name: "Jane", Username: "jane_doe",
		Avatar: "https://cdn.example.com/a.png", VerifiedAt: &now, CreatedAt: now}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Profile
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Username, out.Username)
	assert.Equal(t, in.Avatar, out.Avatar)
	assert.True(t, now.Equal(*out.VerifiedAt))
}
