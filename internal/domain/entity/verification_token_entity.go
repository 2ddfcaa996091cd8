package entity

import "time"

type VerificationTokenType string

const (
	TokenEmailVerification VerificationTokenType = "email_verification"
	TokenRecoveryAccount   VerificationTokenType = "recovery_account"
	TokenChangePassword    VerificationTokenType = "change_password"
	TokenChangeEmail       VerificationTokenType = "change_email"
)

type VerificationToken struct {
	Token     string
	UserID    string
	Type      VerificationTokenType
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *VerificationToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
