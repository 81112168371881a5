package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/service"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// LogHandler serves the co-location and social contact logs plus the
// burner-switch analytics.
type LogHandler struct {
	svc *service.AnalyticsService
}

// NewLogHandler creates the handler.
func NewLogHandler(svc *service.AnalyticsService) *LogHandler {
	return &LogHandler{svc: svc}
}

// CoLocationLog handles POST /logs/colocation
func (h *LogHandler) CoLocationLog(c *gin.Context) {
	var req models.CoLocationLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if len(req.EntityIDs) == 0 {
		response.BadRequest(c, "entityIds: required")
		return
	}
	entries, err := h.svc.CoLocationLog(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, entries)
}

// SocialLog handles POST /logs/social
func (h *LogHandler) SocialLog(c *gin.Context) {
	var req models.SocialLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if len(req.EntityIDs) == 0 {
		response.BadRequest(c, "entityIds: required")
		return
	}
	entries, err := h.svc.SocialLog(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, entries)
}

// Handoffs handles GET /analytics/handoffs
func (h *LogHandler) Handoffs(c *gin.Context) {
	candidates, err := h.svc.Handoffs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, candidates)
}
