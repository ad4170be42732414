package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/api/http/respond"
	"github.com/tidytask/tidytask-backend/internal/auth"
	"github.com/tidytask/tidytask-backend/internal/users/service"
)

type Handler struct {
	svc *service.UserService
}

func Register(rg *gin.RouterGroup, svc *service.UserService) {
	h := &Handler{svc: svc}

	rg.GET("/me", h.me)
}

// me returns the authenticated user's profile.
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.FindByID(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, u)
}
