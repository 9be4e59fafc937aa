package handlers

import (
	"github.com/rs/zerolog"

	domain "github.com/dronedeck/media-api/internal/domain/media"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media  *MediaHandler
	Health *HealthHandler
}

func NewProvider(service *domain.Service, database DatabaseChecker, storage StorageChecker, version string, log zerolog.Logger) *Provider {
	return &Provider{
		Media:  NewMediaHandler(service, log),
		Health: NewHealthHandler(database, storage, version),
	}
}
