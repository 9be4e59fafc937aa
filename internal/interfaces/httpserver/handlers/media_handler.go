package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/dronedeck/media-api/internal/domain/media"
	"github.com/dronedeck/media-api/internal/infrastructure/metrics"
	"github.com/dronedeck/media-api/internal/interfaces/httpserver/responses"
)

// MediaHandler exposes the media record endpoints.
type MediaHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewMediaHandler(service *domain.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

// List returns every media record, newest upload first.
func (h *MediaHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list failed")
		responses.HandleError(c, err, "Error listing media assets")
		return
	}
	c.JSON(http.StatusOK, responses.ListResponse{Success: true, Count: len(records), Data: records})
}

// Get returns one media record by id.
func (h *MediaHandler) Get(c *gin.Context) {
	id := c.Param("id")
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "Media asset with id "+id+" not found")
		return
	}
	c.JSON(http.StatusOK, responses.RecordResponse{Success: true, Data: record})
}

// Upload accepts a multipart form with the payload and its metadata fields
// and creates a new record.
func (h *MediaHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Success: false, Message: "No file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read uploaded file")
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Success: false, Message: "Failed to read uploaded file"})
		return
	}

	form := c.Request.FormValue
	input := domain.UploadInput{
		Data:        data,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Title:       form("title"),
		Description: form("description"),
		Tags:        splitTags(form("tags")),
		Latitude:    form("latitude"),
		Longitude:   form("longitude"),
		Altitude:    form("altitude"),
		DroneModel:  form("droneModel"),
		MissionID:   form("missionId"),
	}

	record, err := h.service.Upload(c.Request.Context(), input)
	if err != nil {
		h.log.Error().Err(err).Msg("upload failed")
		metrics.RecordUpload(input.ContentType, "error", 0)
		responses.HandleError(c, err, "Error uploading media asset")
		return
	}
	metrics.RecordUpload(record.FileType, "success", record.FileSize)
	c.JSON(http.StatusCreated, responses.RecordResponse{Success: true, Data: record})
}

// Update merges the JSON body over the stored record.
func (h *MediaHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input domain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Success: false, Message: "Invalid request body", Error: err.Error()})
		return
	}

	record, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		responses.HandleError(c, err, "Error updating media asset")
		return
	}
	c.JSON(http.StatusOK, responses.RecordResponse{Success: true, Data: record})
}

// Delete removes the record and best-effort deletes the stored object.
func (h *MediaHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "Error deleting media asset")
		return
	}
	c.Status(http.StatusNoContent)
}

// Analyze runs vision analysis on the record's stored object.
func (h *MediaHandler) Analyze(c *gin.Context) {
	id := c.Param("id")
	record, err := h.service.Analyze(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("analyze failed")
		responses.HandleError(c, err, "Error analyzing media asset")
		return
	}
	c.JSON(http.StatusOK, responses.AnalysisResponse{
		Success:  true,
		Message:  "Media analyzed successfully",
		Analysis: record.Analysis,
	})
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
