package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/service"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// EntityHandler serves the entity explorer endpoints.
type EntityHandler struct {
	svc *service.EntityService
}

// NewEntityHandler creates the handler.
func NewEntityHandler(svc *service.EntityService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// Entities handles GET /entities
func (h *EntityHandler) Entities(c *gin.Context) {
	loaded, err := h.svc.Load(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, loaded)
}

// LoadProgress handles GET /entities/load-progress
func (h *EntityHandler) LoadProgress(c *gin.Context) {
	response.Success(c, h.svc.Progress())
}

type titleRequest struct {
	Title string `json:"title" binding:"required"`
}

// SetTitle handles PUT /titles/:kind/:id
func (h *EntityHandler) SetTitle(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title: required")
		return
	}
	if err := h.svc.SetTitle(c.Request.Context(), c.Param("kind"), c.Param("id"), req.Title); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// DeleteTitle handles DELETE /titles/:kind/:id
func (h *EntityHandler) DeleteTitle(c *gin.Context) {
	if err := h.svc.DeleteTitle(c.Request.Context(), c.Param("kind"), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
