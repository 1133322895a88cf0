package app

import (
	"github.com/gin-gonic/gin"

	"github.com/closetloop/marketplace-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		FeedHandler:    handlers.Feed,
		SignalHandler:  handlers.Signal,
		ResetHandler:   handlers.Reset,
		AuthMiddleware: middleware.Auth,
		AllowOrigins:   cfg.AllowOrigins,
	})
}
