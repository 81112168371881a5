// Package handler translates HTTP requests into service calls and maps
// results onto the response envelope. Parse failures surface as 400s naming
// the bad field; canceled requests end without a body.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/service"
	"github.com/caselink/analytics-backend-go/internal/timeline"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// HeatmapHandler serves the spatio-temporal endpoints.
type HeatmapHandler struct {
	svc *service.HeatmapService
}

// NewHeatmapHandler creates the handler.
func NewHeatmapHandler(svc *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{svc: svc}
}

// Positions handles GET /positions?hour=
func (h *HeatmapHandler) Positions(c *gin.Context) {
	hour, ok := queryHour(c, "hour")
	if !ok {
		return
	}
	positions, err := h.svc.Positions(c.Request.Context(), hour)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, positions)
}

// PositionsBulk handles GET /positions/bulk?limit=
func (h *HeatmapHandler) PositionsBulk(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "limit: must be a non-negative integer")
			return
		}
		limit = n
	}
	byHour, err := h.svc.PositionsBulk(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"positionsByHour": byHour})
}

// Hotspots handles GET /hotspots?hour=&startHour=&endHour=
func (h *HeatmapHandler) Hotspots(c *gin.Context) {
	hour, ok := queryHour(c, "hour")
	if !ok {
		return
	}
	window, err := timeline.ParseWindow(c.Query("startHour"), c.Query("endHour"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	hotspots, err := h.svc.Hotspots(c.Request.Context(), hour, window)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, hotspots)
}

// Heatmap handles GET /heatmap?hour=
func (h *HeatmapHandler) Heatmap(c *gin.Context) {
	hour, ok := queryHour(c, "hour")
	if !ok {
		return
	}
	activity, err := h.svc.Heatmap(c.Request.Context(), hour)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, activity)
}

// Tail handles GET /devices/:id/tail
func (h *HeatmapHandler) Tail(c *gin.Context) {
	tail, err := h.svc.Tail(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		response.NotFound(c, "device has no recorded positions")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, tail)
}

// Trails handles GET /trails?entityIds=&startHour=&endHour=&hour=
func (h *HeatmapHandler) Trails(c *gin.Context) {
	window, err := timeline.ParseWindow(c.Query("startHour"), c.Query("endHour"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	currentHour := window.Start
	if raw := c.Query("hour"); raw != "" {
		parsed, err := timeline.ParseHour(raw)
		if err != nil {
			response.BadRequest(c, "hour: "+err.Error())
			return
		}
		currentHour = parsed
	}
	response.Success(c, h.svc.Trails(splitIDs(c.Query("entityIds")), window, currentHour))
}

// queryHour parses a required hour query parameter, writing the 400 itself.
func queryHour(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		response.BadRequest(c, name+": required")
		return 0, false
	}
	hour, err := timeline.ParseHour(raw)
	if err != nil {
		response.BadRequest(c, name+": "+err.Error())
		return 0, false
	}
	return hour, true
}

// splitIDs splits a comma-separated id list, dropping empty segments.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// fail maps a service error onto the response envelope. A canceled request
// gets no body; everything else is a 500.
func fail(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		response.Aborted(c)
		return
	}
	response.InternalError(c, err.Error())
}
