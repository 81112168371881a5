// Package api assembles the gin engine: middleware chain, route groups, and
// handler wiring.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/config"
	"github.com/caselink/analytics-backend-go/internal/handler"
	"github.com/caselink/analytics-backend-go/internal/middleware"
)

// Handlers collects the wired handler set for route registration.
type Handlers struct {
	Heatmap *handler.HeatmapHandler
	Entity  *handler.EntityHandler
	Graph   *handler.GraphHandler
	Case    *handler.CaseHandler
	Log     *handler.LogHandler
	Export  *handler.ExportHandler
	Auth    *handler.AuthHandler
}

// SetupRouter builds the engine with logging, CORS, and rate limiting, and
// registers every route. All /api/v1 routes except token issuance require a
// bearer token.
func SetupRouter(cfg *config.Config, logger *zap.Logger, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors())
	r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/token", h.Auth.Token)

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTSecret))
	{
		authed.GET("/positions", h.Heatmap.Positions)
		authed.GET("/positions/bulk", h.Heatmap.PositionsBulk)
		authed.GET("/hotspots", h.Heatmap.Hotspots)
		authed.GET("/heatmap", h.Heatmap.Heatmap)
		authed.GET("/devices/:id/tail", h.Heatmap.Tail)
		authed.GET("/trails", h.Heatmap.Trails)

		authed.GET("/entities", h.Entity.Entities)
		authed.GET("/entities/load-progress", h.Entity.LoadProgress)
		authed.PUT("/titles/:kind/:id", h.Entity.SetTitle)
		authed.DELETE("/titles/:kind/:id", h.Entity.DeleteTitle)

		authed.GET("/graph", h.Graph.Graph)

		authed.GET("/cases", h.Case.Cases)
		authed.GET("/cases/:id", h.Case.CaseByID)

		authed.POST("/logs/colocation", h.Log.CoLocationLog)
		authed.POST("/logs/social", h.Log.SocialLog)
		authed.GET("/analytics/handoffs", h.Log.Handoffs)

		authed.GET("/export/suspects.csv", h.Export.SuspectsCSV)
	}

	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
