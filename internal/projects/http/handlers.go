package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/api/http/respond"
	"github.com/tidytask/tidytask-backend/internal/auth"
	"github.com/tidytask/tidytask-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Message(c, http.StatusBadRequest, "invalid body")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Created(c, p)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.FindAllByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.svc.FindOne(c.Request.Context(), id, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Message(c, http.StatusBadRequest, "invalid body")
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id, auth.UserID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Message(c, http.StatusOK, "Project deleted successfully")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Message(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
