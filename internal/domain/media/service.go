package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/dronedeck/media-api/utils/mediaid"
)

// Repository defines document-store operations needed by the service.
// Point operations key by record id; missing ids surface ErrNotFound.
type Repository interface {
	GetByID(ctx context.Context, id string) (*MediaRecord, error)
	Create(ctx context.Context, record *MediaRecord) error
	Replace(ctx context.Context, record *MediaRecord) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*MediaRecord, error)
}

// ObjectStore defines binary storage operations. Put returns the resolvable
// URL of the stored object; DeleteIfExists never fails on an absent key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	DeleteIfExists(ctx context.Context, key string) error
	ResolveURL(key string) string
}

// Analyzer runs vision analysis against a stored object's URL.
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (*Analysis, error)
}

// Service orchestrates the document store and object store to implement the
// media record lifecycle.
type Service struct {
	repo     Repository
	objects  ObjectStore
	analyzer Analyzer
	maxBytes int64
	log      zerolog.Logger
}

func NewService(repo Repository, objects ObjectStore, analyzer Analyzer, maxBytes int64, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		objects:  objects,
		analyzer: analyzer,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "media-service").Logger(),
	}
}

// List returns every record, newest upload first. There is no pagination;
// the full collection is materialized on each call.
func (s *Service) List(ctx context.Context) ([]*MediaRecord, error) {
	return s.repo.ListAll(ctx)
}

// Get returns the record for id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*MediaRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// Upload stores the payload in the object store, then inserts the metadata
// record. The two writes are not atomic: when the insert fails the already
// written object is left behind and only logged, matching the source
// system's behavior.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*MediaRecord, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", ErrValidation)
	}
	if s.maxBytes > 0 && int64(len(in.Data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds max size of %d bytes", ErrValidation, s.maxBytes)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = mimetype.Detect(in.Data).String()
	}

	id := mediaid.New()
	key := objectKey(id, in.FileName)

	url, err := s.objects.Put(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	record := &MediaRecord{
		ID:          id,
		Title:       defaultString(in.Title, "Untitled"),
		Description: in.Description,
		FileName:    key,
		FileURL:     url,
		FileType:    contentType,
		FileSize:    int64(len(in.Data)),
		Tags:        in.Tags,
		Metadata: Metadata{
			GPS: GPS{
				Latitude:  parseCoordinate(in.Latitude),
				Longitude: parseCoordinate(in.Longitude),
				Altitude:  parseCoordinate(in.Altitude),
			},
			DroneModel: in.DroneModel,
			MissionID:  in.MissionID,
		},
		UploadedAt: now,
	}
	if record.Tags == nil {
		record.Tags = []string{}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// The object written above is now orphaned. The source system does
		// not compensate; log the key so operators can reap it.
		s.log.Warn().Str("key", key).Err(err).Msg("record insert failed after object write, object orphaned")
		return nil, err
	}

	return record, nil
}

// Update merges the client-supplied fields over the stored record and
// replaces it. Empty client values retain the stored value; the id never
// changes.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*MediaRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Title = mergeString(record.Title, in.Title)
	record.Description = mergeString(record.Description, in.Description)
	record.Metadata.GPS.Latitude = mergeCoordinate(record.Metadata.GPS.Latitude, in.Latitude)
	record.Metadata.GPS.Longitude = mergeCoordinate(record.Metadata.GPS.Longitude, in.Longitude)
	record.Metadata.GPS.Altitude = mergeCoordinate(record.Metadata.GPS.Altitude, in.Altitude)
	record.Metadata.DroneModel = mergeString(record.Metadata.DroneModel, in.DroneModel)
	record.Metadata.MissionID = mergeString(record.Metadata.MissionID, in.MissionID)

	now := time.Now().UTC()
	record.UpdatedAt = &now

	if err := s.repo.Replace(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the metadata record, then best-effort deletes the stored
// object. Metadata deletion is authoritative: a failed object delete is
// logged and swallowed.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if record.FileName != "" {
		if err := s.objects.DeleteIfExists(ctx, record.FileName); err != nil {
			s.log.Warn().Str("key", record.FileName).Err(err).Msg("could not delete object for removed record")
		}
	}
	return nil
}

// Analyze runs the vision adapter against the record's stored object and
// merges the result into the record. The record is only mutated after a
// successful adapter call.
func (s *Service) Analyze(ctx context.Context, id string) (*MediaRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(record.FileType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, record.FileType)
	}
	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: vision endpoint is not configured", ErrServiceUnavailable)
	}
	if record.FileURL == "" {
		return nil, fmt.Errorf("%w: record has no file URL", ErrValidation)
	}

	analysis, err := s.analyzer.Analyze(ctx, record.FileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	now := time.Now().UTC()
	record.Analysis = analysis
	record.LastAnalyzedAt = &now
	record.UpdatedAt = &now

	if err := s.repo.Replace(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// objectKey derives the object-store key from the record id and the client's
// original file name, guaranteeing uniqueness per record.
func objectKey(id, fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return id
	}
	return id + "-" + name
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
