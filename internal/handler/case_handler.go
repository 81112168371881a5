package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/service"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// CaseHandler serves investigative case endpoints.
type CaseHandler struct {
	svc *service.CaseService
}

// NewCaseHandler creates the handler.
func NewCaseHandler(svc *service.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

// Cases handles GET /cases
func (h *CaseHandler) Cases(c *gin.Context) {
	cases, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cases)
}

// CaseByID handles GET /cases/:id
func (h *CaseHandler) CaseByID(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		response.NotFound(c, "case not found")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, rec)
}
