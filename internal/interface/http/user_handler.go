package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/pkg/response"
)

type UserHandler struct {
	Profiles ProfileUsecase
}

func NewUserHandler(profiles ProfileUsecase) *UserHandler {
	return &UserHandler{Profiles: profiles}
}

type searchQuery struct {
	Q    string `form:"q" binding:"max=100"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWith(c, unprocessable(err))
		return
	}
	profiles, err := h.Profiles.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		abortWith(c, err)
		return
	}
	response.OK(c, http.StatusOK, profiles, "")
}
