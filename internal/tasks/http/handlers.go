package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/api/http/respond"
	"github.com/tidytask/tidytask-backend/internal/auth"
	"github.com/tidytask/tidytask-backend/internal/tasks/domain"
	"github.com/tidytask/tidytask-backend/internal/tasks/service"
)

type Handler struct {
	svc *service.TaskService
}

func Register(rg *gin.RouterGroup, svc *service.TaskService) {
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

	t, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	}, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Created(c, t)
}

// list returns the caller's tasks, optionally filtered to one project via
// the projectId query parameter.
func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)

	if raw := c.Query("projectId"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || projectID <= 0 {
			respond.Message(c, http.StatusBadRequest, "invalid projectId")
			return
		}

		items, err := h.svc.FindAllByProject(c.Request.Context(), projectID, userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.JSON(c, http.StatusOK, items)
		return
	}

	items, err := h.svc.FindAllByUser(c.Request.Context(), userID)
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

	t, err := h.svc.FindOne(c.Request.Context(), id, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, t)
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

	var status *domain.Status
	if req.Status != nil {
		s := domain.Status(*req.Status)
		status = &s
	}
	var priority *domain.Priority
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		priority = &p
	}

	t, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	}, auth.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, t)
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
	respond.Message(c, http.StatusOK, "Task deleted successfully")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Message(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
