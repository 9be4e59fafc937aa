package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dronedeck/media-api/internal/config"
	"github.com/dronedeck/media-api/internal/infrastructure/metrics"

	domain "github.com/dronedeck/media-api/internal/domain/media"
)

const analyzePath = "/vision/v3.2/analyze?visualFeatures=Description,Tags,Objects,Color&details=Landmarks&language=en"

// Client calls the vision analysis endpoint with a stored object's URL and
// maps the provider response onto the domain analysis structure.
type Client struct {
	endpoint   string
	key        string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(cfg.VisionEndpoint, "/"),
		key:      cfg.VisionKey,
		httpClient: &http.Client{
			Timeout: cfg.VisionTimeout,
		},
		log: log.With().Str("component", "vision-client").Logger(),
	}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeResponse mirrors the provider's v3.2 analyze payload; only the
// fields merged into records are decoded, the rest rides along in Raw.
type analyzeResponse struct {
	Description struct {
		Captions []struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"captions"`
	} `json:"description"`
	Tags []struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"tags"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Objects []struct {
		Object     string  `json:"object"`
		Confidence float64 `json:"confidence"`
		Rectangle  struct {
			X int `json:"x"`
			Y int `json:"y"`
			W int `json:"w"`
			H int `json:"h"`
		} `json:"rectangle"`
	} `json:"objects"`
	Color struct {
		DominantColors []string `json:"dominantColors"`
	} `json:"color"`
}

// Analyze submits the image URL for analysis.
func (c *Client) Analyze(ctx context.Context, imageURL string) (*domain.Analysis, error) {
	payload, err := json.Marshal(analyzeRequest{URL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+analyzePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAnalysis("error")
		return nil, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAnalysis("error")
		return nil, fmt.Errorf("read vision response: %w", err)
	}
	if resp.StatusCode >= 400 {
		metrics.RecordAnalysis("error")
		c.log.Error().Int("status", resp.StatusCode).Msg("vision endpoint returned an error")
		return nil, fmt.Errorf("vision endpoint returned status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RecordAnalysis("error")
		return nil, fmt.Errorf("decode vision response: %w", err)
	}

	metrics.RecordAnalysis("success")
	return mapAnalysis(parsed, body), nil
}

func mapAnalysis(parsed analyzeResponse, raw []byte) *domain.Analysis {
	analysis := &domain.Analysis{
		Tags:           make([]string, 0, len(parsed.Tags)),
		DominantColors: parsed.Color.DominantColors,
		Raw:            json.RawMessage(raw),
	}

	if len(parsed.Description.Captions) > 0 {
		analysis.Description = parsed.Description.Captions[0].Text
		analysis.Confidence = parsed.Description.Captions[0].Confidence
	}
	for _, tag := range parsed.Tags {
		analysis.Tags = append(analysis.Tags, tag.Name)
	}
	for _, category := range parsed.Categories {
		analysis.Categories = append(analysis.Categories, category.Name)
	}
	for _, obj := range parsed.Objects {
		analysis.Objects = append(analysis.Objects, domain.DetectedObject{
			Object:     obj.Object,
			Confidence: obj.Confidence,
			Rectangle: domain.BoundingBox{
				X:      obj.Rectangle.X,
				Y:      obj.Rectangle.Y,
				Width:  obj.Rectangle.W,
				Height: obj.Rectangle.H,
			},
		})
	}
	return analysis
}
