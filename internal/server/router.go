package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/closetloop/marketplace-backend/internal/handlers"
	"github.com/closetloop/marketplace-backend/internal/middleware"
)

type RouterConfig struct {
	FeedHandler    *handlers.FeedHandler
	SignalHandler  *handlers.SignalHandler
	ResetHandler   *handlers.ResetHandler
	AuthMiddleware *middleware.AuthMiddleware
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !contains(origins, "*"),
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Feed
	api.GET("/feed", cfg.FeedHandler.GetFeed)
	api.POST("/feed/reset", cfg.ResetHandler.ResetSeen)
	// Signals
	api.POST("/feed/impressions/:impressionID/actions", cfg.SignalHandler.RecordAction)
	api.POST("/feed/impressions/:impressionID/ratings", cfg.SignalHandler.RecordRating)

	return router
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if strings.TrimSpace(s) == v {
			return true
		}
	}
	return false
}
