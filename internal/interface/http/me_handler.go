package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/response"
)

const avatarField = "file"

type MeHandler struct {
	Profiles ProfileUsecase
}

func NewMeHandler(profiles ProfileUsecase) *MeHandler {
	return &MeHandler{Profiles: profiles}
}

type usernameRequest struct {
	Username trimmed `json:"username" binding:"required,min=8,max=50,username"`
}

type nameRequest struct {
	Name trimmed `json:"name" binding:"required,min=2,max=100"`
}

// Get GET /api/me
func (h *MeHandler) Get(c *gin.Context) {
	profile, err := h.Profiles.GetMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWith(c, err)
		return
	}
	response.OK(c, http.StatusOK, profile, "")
}

// UpdateUsername PATCH /api/me/username
func (h *MeHandler) UpdateUsername(c *gin.Context) {
	var req usernameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Profiles.UpdateUsername(c.Request.Context(), middleware.UserID(c), req.Username.String()); err != nil {
		abortWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Success")
}

// UpdateName PATCH /api/me/name
func (h *MeHandler) UpdateName(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Profiles.UpdateName(c.Request.Context(), middleware.UserID(c), req.Name.String()); err != nil {
		abortWith(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Success")
}

// UpdateAvatar PATCH /api/me/avatar, multipart with a single "file" part.
// At most MaxAvatarSize+1 bytes are read so oversized uploads are still rejected by size.
func (h *MeHandler) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		abortWith(c, apperror.UnprocessableEntity("", map[string]string{avatarField: avatarField + " is required"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortWith(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, application.MaxAvatarSize+1))
	if err != nil {
		abortWith(c, err)
		return
	}

	url, err := h.Profiles.UpdateAvatar(c.Request.Context(), middleware.UserID(c), fh.Size, data)
	if err != nil {
		abortWith(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"url": url}, "Success")
}
