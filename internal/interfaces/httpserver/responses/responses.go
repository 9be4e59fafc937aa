package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/dronedeck/media-api/internal/domain/media"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ListResponse wraps collection results.
type ListResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Data    []*domain.MediaRecord `json:"data"`
}

// RecordResponse wraps a single record.
type RecordResponse struct {
	Success bool                `json:"success"`
	Data    *domain.MediaRecord `json:"data"`
}

// AnalysisResponse wraps an analysis result.
type AnalysisResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Analysis *domain.Analysis `json:"analysis"`
}

// HandleError maps domain errors onto HTTP statuses and writes the JSON
// error body. Unrecognized errors become a 500 with the underlying message;
// stack traces are never exposed.
func HandleError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedMedia):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}
