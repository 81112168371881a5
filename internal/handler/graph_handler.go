package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/service"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// GraphHandler serves the network explorer endpoint.
type GraphHandler struct {
	svc *service.GraphService
}

// NewGraphHandler creates the handler.
func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// Graph handles GET /graph?entityIds=&focusLinked=&city=&showSuspects=&
// showAssociates=&showDevices=&edgeCategories=
func (h *GraphHandler) Graph(c *gin.Context) {
	req := service.DefaultGraphRequest()
	req.EntityIDs = splitIDs(c.Query("entityIds"))
	req.City = c.Query("city")
	req.EdgeCategories = splitIDs(c.Query("edgeCategories"))

	var ok bool
	if req.FocusLinked, ok = queryBool(c, "focusLinked", false); !ok {
		return
	}
	if req.ShowSuspects, ok = queryBool(c, "showSuspects", true); !ok {
		return
	}
	if req.ShowAssociates, ok = queryBool(c, "showAssociates", true); !ok {
		return
	}
	if req.ShowDevices, ok = queryBool(c, "showDevices", true); !ok {
		return
	}

	data, err := h.svc.Build(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, data)
}

// queryBool parses an optional boolean query parameter, writing the 400
// itself on a malformed value.
func queryBool(c *gin.Context, name string, fallback bool) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, name+": must be a boolean")
		return false, false
	}
	return v, true
}
