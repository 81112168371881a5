package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/export"
	"github.com/caselink/analytics-backend-go/internal/service"
)

// ExportHandler serves downloadable exports.
type ExportHandler struct {
	entities *service.EntityService
}

// NewExportHandler creates the handler.
func NewExportHandler(entities *service.EntityService) *ExportHandler {
	return &ExportHandler{entities: entities}
}

// SuspectsCSV handles GET /export/suspects.csv
func (h *ExportHandler) SuspectsCSV(c *gin.Context) {
	suspects, err := h.entities.Suspects(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="suspects.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteSuspectsCSV(c.Writer, suspects); err != nil {
		// headers are gone; record the failure for the request log
		c.Error(err) //nolint:errcheck
	}
}
