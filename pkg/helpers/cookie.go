package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "token"
	RefreshCookie = "refreshToken"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetPair writes both auth cookies as session cookies (no Max-Age).
func (m *Manager) SetPair(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, access, 0, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, refresh, 0, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", m.Domain, m.Secure, true)
}
