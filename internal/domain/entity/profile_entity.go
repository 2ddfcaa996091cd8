package entity

import (
	"encoding/json"
	"time"
)

// Profile is the public view of a user. Name, username and avatar render as null until set.
type Profile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	Avatar     string     `json:"avatar"`
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string     `json:"id"`
		Email      string     `json:"email"`
		Name       *string    `json:"name"`
		Username   *string    `json:"username"`
		Avatar     *string    `json:"avatar"`
		VerifiedAt *time.Time `json:"verified_at"`
		CreatedAt  time.Time  `json:"created_at"`
	}{
		ID:         p.ID,
		Email:      p.Email,
		Name:       optional(p.Name),
		Username:   optional(p.Username),
		Avatar:     optional(p.Avatar),
		VerifiedAt: p.VerifiedAt,
		CreatedAt:  p.CreatedAt,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Username:   u.Username,
		Avatar:     u.AvatarURL,
		VerifiedAt: u.VerifiedAt,
		CreatedAt:  u.CreatedAt,
	}
}
