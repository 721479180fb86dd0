package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/config"
	"github.com/jengzang/routescore-backend-go/internal/handler"
	"github.com/jengzang/routescore-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Routes   *handler.RouteHandler
	Profiles *handler.ProfileHandler
}

// SetupRouter builds the gin engine. ctx bounds background work such as rate limiter cleanup.
func SetupRouter(ctx context.Context, cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middleware.Logger(log), middleware.Recovery(log))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Route scoring API is running",
		})
	})

	uploads := middleware.RateLimit(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow)

	api := r.Group("/api/v1")
	{
		api.POST("/score", uploads, h.Routes.ScoreRoute)

		routes := api.Group("/routes")
		{
			routes.GET("", h.Routes.GetRoutes)
			routes.POST("", uploads, h.Routes.CreateRoute)
			routes.GET("/:id", h.Routes.GetRouteByID)
			routes.DELETE("/:id", h.Routes.DeleteRoute)
			routes.POST("/:id/rescore", h.Routes.RescoreRoute)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("", h.Profiles.GetProfiles)
			profiles.POST("", h.Profiles.SaveProfile)
			profiles.GET("/:name", h.Profiles.GetProfile)
		}
	}

	return r
}
