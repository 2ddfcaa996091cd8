package entity

import "time"

// Session backs one outstanding refresh token. It is single-use: refresh sets InvokedAt.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	InvokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the session may still mint tokens at now.
func (s *Session) Usable(now time.Time) bool {
	return s.InvokedAt == nil && now.Before(s.ExpiresAt)
}
