package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/internal/site"
	"github.com/MKhiriev/go-course-sync/models"
)

// ─────────────────────────────────────────────
// Prefetch
// ─────────────────────────────────────────────

type fakeDownloader struct {
	mu       sync.Mutex
	started  chan string
	modules  []models.CourseModule
	status   models.DownloadStatus
	size     models.FileSizeSum
	removed  []models.CourseModule
	statusOf map[int64]models.DownloadStatus
}

func (f *fakeDownloader) GetModuleStatus(_ context.Context, _ models.Site, m models.CourseModule) (models.DownloadStatus, error) {
	return f.statusOf[m.ID], nil
}

func (f *fakeDownloader) GetModulesStatus(_ context.Context, _ models.Site, _ []models.CourseModule) (models.DownloadStatus, error) {
	return f.status, nil
}

func (f *fakeDownloader) GetSectionStatus(_ context.Context, _ string, _, _ int64) (models.DownloadStatus, error) {
	return f.status, nil
}

func (f *fakeDownloader) GetDownloadSize(_ context.Context, _ models.Site, _ []models.CourseModule) (models.FileSizeSum, error) {
	return f.size, nil
}

func (f *fakeDownloader) PrefetchAll(_ context.Context, _ models.Site, downloadID string, modules []models.CourseModule, _ prefetch.ProgressFunc) error {
	f.mu.Lock()
	f.modules = modules
	f.mu.Unlock()
	f.started <- downloadID
	return nil
}

func (f *fakeDownloader) RemoveModuleFiles(_ context.Context, _ models.Site, m models.CourseModule) error {
	f.removed = append(f.removed, m)
	return nil
}

var _ Downloader = (*fakeDownloader)(nil)

var modules = []models.CourseModule{
	{ID: 5, Instance: 42, ModName: models.ModuleAssign},
	{ID: 6, Instance: 8, ModName: models.ModuleQuiz},
}

func TestPrefetchService_Prefetch_GeneratesDownloadID(t *testing.T) {
	d := &fakeDownloader{started: make(chan string, 1)}
	svc := NewPrefetchService(newFakeSites(testSite), d, logger.Nop())

	id, err := svc.Prefetch(context.Background(), testSite.ID, "", modules)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-d.started:
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("prefetch was not started")
	}
}

func TestPrefetchService_Prefetch_OutlivesRequest(t *testing.T) {
	d := &fakeDownloader{started: make(chan string, 1)}
	svc := NewPrefetchService(newFakeSites(testSite), d, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	id, err := svc.Prefetch(ctx, testSite.ID, "course-10", modules)
	cancel()
	require.NoError(t, err)
	assert.Equal(t, "course-10", id)

	select {
	case got := <-d.started:
		assert.Equal(t, "course-10", got)
	case <-time.After(time.Second):
		t.Fatal("prefetch was not started")
	}
	d.mu.Lock()
	assert.Equal(t, modules, d.modules)
	d.mu.Unlock()
}

func TestPrefetchService_Prefetch_NoModules(t *testing.T) {
	svc := NewPrefetchService(newFakeSites(testSite), &fakeDownloader{}, logger.Nop())

	_, err := svc.Prefetch(context.Background(), testSite.ID, "", nil)
	require.ErrorIs(t, err, ErrValidationNoModulesProvided)
}

func TestPrefetchService_StatusAndSize(t *testing.T) {
	d := &fakeDownloader{
		status:   models.StatusOutdated,
		size:     models.FileSizeSum{Size: 40, Total: true},
		statusOf: map[int64]models.DownloadStatus{5: models.StatusDownloaded},
	}
	svc := NewPrefetchService(newFakeSites(testSite), d, logger.Nop())
	ctx := context.Background()

	got, err := svc.ModuleStatus(ctx, testSite.ID, modules[0])
	require.NoError(t, err)
	assert.Equal(t, models.StatusDownloaded, got)

	got, err = svc.ModulesStatus(ctx, testSite.ID, modules)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutdated, got)

	size, err := svc.DownloadSize(ctx, testSite.ID, modules)
	require.NoError(t, err)
	assert.Equal(t, int64(40), size.Size)

	require.NoError(t, svc.RemoveFiles(ctx, testSite.ID, modules[1]))
	assert.Equal(t, []models.CourseModule{modules[1]}, d.removed)
}

func TestPrefetchService_UnknownSite(t *testing.T) {
	svc := NewPrefetchService(newFakeSites(), &fakeDownloader{}, logger.Nop())

	_, err := svc.ModuleStatus(context.Background(), "nope", modules[0])
	require.ErrorIs(t, err, site.ErrUnknownSite)
}
