package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dronedeck/media-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches the media and health routes.
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/media", r.handlers.Media.List)
	router.POST("/media", r.handlers.Media.Upload)
	router.GET("/media/:id", r.handlers.Media.Get)
	router.PUT("/media/:id", r.handlers.Media.Update)
	router.DELETE("/media/:id", r.handlers.Media.Delete)
	router.POST("/media/:id/analyze", r.handlers.Media.Analyze)
	router.GET("/health", r.handlers.Health.Check)
}
