package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

type AuthHandler struct {
	Auth     AuthUsecase
	Profiles ProfileUsecase
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(auth AuthUsecase, profiles ProfileUsecase, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Profiles: profiles, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Email    trimmed `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwdbytes,strongpwd"`
}

type loginRequest struct {
	Email    trimmed `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwdbytes"`
}

type setupRequest struct {
	Name     trimmed `json:"name" binding:"required,min=2,max=100"`
	Username trimmed `json:"username" binding:"required,min=6,max=50,username"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.Register(c.Request.Context(), req.Email.String(), req.Password); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Verify GET /api/auth/verify/:token
func (h *AuthHandler) Verify(c *gin.Context) {
	pair, err := h.Auth.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		abortWith(c, err)
		return
	}
	h.signedIn(c, pair, "Email verified")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.Auth.Login(c.Request.Context(), req.Email.String(), req.Password)
	if err != nil {
		abortWith(c, err)
		return
	}
	h.signedIn(c, pair, "Login successful")
}

// Setup POST /api/auth/setup (access guard)
func (h *AuthHandler) Setup(c *gin.Context) {
	var req setupRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.Profiles.Setup(c.Request.Context(), middleware.UserID(c), req.Name.String(), req.Username.String())
	if err != nil {
		abortWith(c, err)
		return
	}
	response.OK(c, http.StatusAccepted, profile, "Profile updated")
}

// Refresh POST /api/auth/refresh (refresh guard)
func (h *AuthHandler) Refresh(c *gin.Context) {
	pair, err := h.Auth.Refresh(c.Request.Context(), middleware.UserID(c), middleware.SessionID(c))
	if err != nil {
		abortWith(c, err)
		return
	}
	h.signedIn(c, pair, "Token refreshed")
}

// Logout POST /api/auth/logout (refresh guard)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.UserID(c), middleware.SessionID(c)); err != nil {
		abortWith(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.OK[any](c, http.StatusOK, nil, "Logged out")
}

func (h *AuthHandler) signedIn(c *gin.Context, pair application.TokenPair, message string) {
	h.Cookies.SetPair(c, pair.AccessToken, pair.RefreshToken)
	response.OK[any](c, http.StatusAccepted, nil, message)
}
