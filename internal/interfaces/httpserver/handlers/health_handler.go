package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DatabaseChecker reports document-store connectivity.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// StorageChecker reports object-store connectivity.
type StorageChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports connectivity of both backing stores.
type HealthHandler struct {
	database DatabaseChecker
	storage  StorageChecker
	version  string
}

func NewHealthHandler(database DatabaseChecker, storage StorageChecker, version string) *HealthHandler {
	return &HealthHandler{database: database, storage: storage, version: version}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// Check pings both stores and reports per-service status. Any failing
// dependency degrades the overall status and the response code to 503.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	services := map[string]string{"api": "running"}
	healthy := true

	if err := h.database.Ping(ctx); err != nil {
		services["database"] = "error: " + err.Error()
		healthy = false
	} else {
		services["database"] = "connected"
	}

	if err := h.storage.Health(ctx); err != nil {
		services["objectStorage"] = "error: " + err.Error()
		healthy = false
	} else {
		services["objectStorage"] = "connected"
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Services:  services,
	})
}
