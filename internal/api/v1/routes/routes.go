package routes

import (
	"github.com/gin-gonic/gin"
	"voice-transcriber/internal/api/v1/handlers"
	"voice-transcriber/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	SessionService services.SessionService
	MaxUploadMB    int
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	sessionHandler := handlers.NewSessionHandler(container.SessionService, container.MaxUploadMB)
	sessions := router.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("/:id", sessionHandler.Delete)

		sessions.PUT("/:id/credentials", sessionHandler.Credentials)
		sessions.PUT("/:id/settings", sessionHandler.Settings)

		sessions.POST("/:id/audio", sessionHandler.Upload)
		sessions.POST("/:id/transcribe", sessionHandler.Transcribe)
		sessions.POST("/:id/summarize", sessionHandler.Summarize)
		sessions.POST("/:id/resummarize", sessionHandler.Resummarize)
		sessions.POST("/:id/clear", sessionHandler.Clear)

		sessions.GET("/:id/download/:kind", sessionHandler.Download)
		sessions.GET("/:id/export", sessionHandler.Export)
		sessions.GET("/:id/events", sessionHandler.Events)
	}
}
