package media_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronedeck/media-api/internal/domain/media"
)

// fakeRepository keeps records in memory and emulates the document store's
// newest-first list ordering.
type fakeRepository struct {
	records   map[string]*media.MediaRecord
	createErr error
	listErr   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{records: make(map[string]*media.MediaRecord)}
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*media.MediaRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, media.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (f *fakeRepository) Create(_ context.Context, record *media.MediaRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeRepository) Replace(_ context.Context, record *media.MediaRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return media.ErrNotFound
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return media.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepository) ListAll(_ context.Context) ([]*media.MediaRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	records := make([]*media.MediaRecord, 0, len(f.records))
	for _, record := range f.records {
		clone := *record
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UploadedAt.After(records[j].UploadedAt)
	})
	return records, nil
}

// fakeObjectStore records puts and deletes.
type fakeObjectStore struct {
	objects   map[string][]byte
	putErr    error
	deleteErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return f.ResolveURL(key), nil
}

func (f *fakeObjectStore) DeleteIfExists(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) ResolveURL(key string) string {
	return "https://objects.test/media-files/" + key
}

type fakeAnalyzer struct {
	analysis *media.Analysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*media.Analysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

func newService(repo *fakeRepository, objects *fakeObjectStore, analyzer media.Analyzer) *media.Service {
	return media.NewService(repo, objects, analyzer, 10*1024*1024, zerolog.Nop())
}

func uploadInput() media.UploadInput {
	return media.UploadInput{
		Data:        make([]byte, 1024),
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Title:       "Test",
		Description: "Aerial shot",
		Tags:        []string{"survey", "coastal"},
		Latitude:    "51.5074",
		Longitude:   "-0.1278",
		DroneModel:  "Mavic 3",
		MissionID:   "m-42",
	}
}

func TestUploadGetRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	objects := newFakeObjectStore()
	svc := newService(repo, objects, nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)

	got, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, "image/jpeg", got.FileType)
	assert.Equal(t, int64(1024), got.FileSize)
	require.NotNil(t, got.Metadata.GPS.Latitude)
	assert.Equal(t, 51.5074, *got.Metadata.GPS.Latitude)
	require.NotNil(t, got.Metadata.GPS.Longitude)
	assert.Equal(t, -0.1278, *got.Metadata.GPS.Longitude)
	assert.Nil(t, got.Metadata.GPS.Altitude)
	assert.Equal(t, record.ID+"-photo.jpg", got.FileName)
	assert.Equal(t, objects.ResolveURL(got.FileName), got.FileURL)
	assert.Contains(t, objects.objects, got.FileName)
}

func TestUploadDefaults(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	record, err := svc.Upload(context.Background(), media.UploadInput{
		Data:        []byte("payload"),
		FileName:    "clip.bin",
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", record.Title)
	assert.Empty(t, record.Description)
	assert.NotNil(t, record.Tags)
	assert.Empty(t, record.Tags)
	assert.Nil(t, record.Metadata.GPS.Latitude)
	assert.Nil(t, record.UpdatedAt)
	assert.False(t, record.UploadedAt.IsZero())
}

func TestUploadSniffsContentTypeWhenMissing(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	// JPEG magic number; the multipart part carried no Content-Type.
	payload := append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}, make([]byte, 64)...)
	record, err := svc.Upload(context.Background(), media.UploadInput{
		Data:     payload,
		FileName: "photo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", record.FileType)

	stored, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", stored.FileType)
}

func TestUploadEmptyPayloadRejected(t *testing.T) {
	svc := newService(newFakeRepository(), newFakeObjectStore(), nil)

	_, err := svc.Upload(context.Background(), media.UploadInput{FileName: "photo.jpg"})
	assert.ErrorIs(t, err, media.ErrValidation)
}

func TestUploadOversizePayloadRejected(t *testing.T) {
	svc := media.NewService(newFakeRepository(), newFakeObjectStore(), nil, 10, zerolog.Nop())

	_, err := svc.Upload(context.Background(), media.UploadInput{
		Data:     make([]byte, 11),
		FileName: "photo.jpg",
	})
	assert.ErrorIs(t, err, media.ErrValidation)
}

func TestUploadObjectStoreFailureCreatesNoRecord(t *testing.T) {
	repo := newFakeRepository()
	objects := newFakeObjectStore()
	objects.putErr = errors.New("bucket gone")
	svc := newService(repo, objects, nil)

	_, err := svc.Upload(context.Background(), uploadInput())
	assert.ErrorIs(t, err, media.ErrUploadFailed)
	assert.Empty(t, repo.records)
}

func TestUploadInsertFailureLeavesObjectOrphaned(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = fmt.Errorf("%w: insert: boom", media.ErrStoreUnavailable)
	objects := newFakeObjectStore()
	svc := newService(repo, objects, nil)

	_, err := svc.Upload(context.Background(), uploadInput())
	assert.ErrorIs(t, err, media.ErrStoreUnavailable)
	assert.Empty(t, repo.records)
	// No compensating delete: the written object stays behind.
	assert.Len(t, objects.objects, 1)
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), record.ID, media.UpdateInput{Title: "Renamed"})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Aerial shot", updated.Description)
	require.NotNil(t, updated.Metadata.GPS.Latitude)
	assert.Equal(t, 51.5074, *updated.Metadata.GPS.Latitude)
	assert.Equal(t, "Mavic 3", updated.Metadata.DroneModel)
	assert.Equal(t, record.ID, updated.ID)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateLatitudeAloneLeavesOtherCoordinates(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), record.ID, media.UpdateInput{Latitude: "48.8566"})
	require.NoError(t, err)

	assert.Equal(t, 48.8566, *updated.Metadata.GPS.Latitude)
	assert.Equal(t, -0.1278, *updated.Metadata.GPS.Longitude)
	assert.Nil(t, updated.Metadata.GPS.Altitude)
}

func TestUpdateEmptyValuesRetainExisting(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), record.ID, media.UpdateInput{
		Title:       "",
		Description: "",
		Latitude:    "",
	})
	require.NoError(t, err)

	assert.Equal(t, "Test", updated.Title)
	assert.Equal(t, "Aerial shot", updated.Description)
	assert.Equal(t, 51.5074, *updated.Metadata.GPS.Latitude)
}

func TestUpdateUnknownRecord(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	_, err := svc.Update(context.Background(), "dm_missing", media.UpdateInput{Title: "x"})
	assert.ErrorIs(t, err, media.ErrNotFound)
	assert.Empty(t, repo.records)
}

func TestDeleteRemovesRecordAndObject(t *testing.T) {
	repo := newFakeRepository()
	objects := newFakeObjectStore()
	svc := newService(repo, objects, nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), record.ID))

	_, err = svc.Get(context.Background(), record.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)
	assert.NotContains(t, objects.objects, record.FileName)
}

func TestDeleteSwallowsObjectStoreFailure(t *testing.T) {
	repo := newFakeRepository()
	objects := newFakeObjectStore()
	svc := newService(repo, objects, nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	objects.deleteErr = errors.New("storage offline")
	// Metadata deletion is authoritative even when object cleanup fails.
	require.NoError(t, svc.Delete(context.Background(), record.ID))
	assert.Empty(t, repo.records)
}

func TestDeleteUnknownRecord(t *testing.T) {
	svc := newService(newFakeRepository(), newFakeObjectStore(), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), "dm_missing"), media.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	base := time.Now().UTC()
	for i, id := range []string{"dm_a", "dm_b", "dm_c"} {
		repo.records[id] = &media.MediaRecord{
			ID:         id,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "dm_c", records[0].ID)
	assert.Equal(t, "dm_b", records[1].ID)
	assert.Equal(t, "dm_a", records[2].ID)
}

func TestAnalyzeMergesResult(t *testing.T) {
	repo := newFakeRepository()
	analyzer := &fakeAnalyzer{analysis: &media.Analysis{
		Description: "a drone over a beach",
		Confidence:  0.93,
		Tags:        []string{"outdoor", "beach"},
	}}
	svc := newService(repo, newFakeObjectStore(), analyzer)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	analyzed, err := svc.Analyze(context.Background(), record.ID)
	require.NoError(t, err)

	require.NotNil(t, analyzed.Analysis)
	assert.Equal(t, "a drone over a beach", analyzed.Analysis.Description)
	require.NotNil(t, analyzed.LastAnalyzedAt)
	require.NotNil(t, analyzed.UpdatedAt)

	stored, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Analysis)
	assert.Equal(t, []string{"outdoor", "beach"}, stored.Analysis.Tags)
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	repo := newFakeRepository()
	analyzer := &fakeAnalyzer{analysis: &media.Analysis{}}
	svc := newService(repo, newFakeObjectStore(), analyzer)

	input := uploadInput()
	input.FileName = "flight.mp4"
	input.ContentType = "video/mp4"
	record, err := svc.Upload(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), record.ID)
	assert.ErrorIs(t, err, media.ErrUnsupportedMedia)
	assert.Zero(t, analyzer.calls)

	stored, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Analysis)
	assert.Nil(t, stored.UpdatedAt)
}

func TestAnalyzeWithoutAdapter(t *testing.T) {
	repo := newFakeRepository()
	svc := newService(repo, newFakeObjectStore(), nil)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), record.ID)
	assert.ErrorIs(t, err, media.ErrServiceUnavailable)
}

func TestAnalyzeAdapterFailureLeavesRecordUntouched(t *testing.T) {
	repo := newFakeRepository()
	analyzer := &fakeAnalyzer{err: errors.New("vision timeout")}
	svc := newService(repo, newFakeObjectStore(), analyzer)

	record, err := svc.Upload(context.Background(), uploadInput())
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), record.ID)
	assert.ErrorIs(t, err, media.ErrAnalysisFailed)

	stored, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Analysis)
	assert.Nil(t, stored.LastAnalyzedAt)
}

func TestAnalyzeUnknownRecord(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &media.Analysis{}}
	svc := newService(newFakeRepository(), newFakeObjectStore(), analyzer)

	_, err := svc.Analyze(context.Background(), "dm_missing")
	assert.ErrorIs(t, err, media.ErrNotFound)
	assert.Zero(t, analyzer.calls)
}
