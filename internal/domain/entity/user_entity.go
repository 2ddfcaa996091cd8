package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Optional columns use the zero value ("" or nil) for NULL.
type User struct {
	ID                string
	Email             string
	Name              string
	Username          string
	PasswordHash      string
	AvatarFileID      string
	AvatarURL         string // resolved from the avatar file row, read-only
	PasswordUpdatedAt *time.Time
	VerifiedAt        *time.Time
	SuspendedAt       *time.Time
	CreatedAt         time.Time
}

func (u *User) IsVerified() bool  { return u.VerifiedAt != nil }
func (u *User) IsSuspended() bool { return u.SuspendedAt != nil }
