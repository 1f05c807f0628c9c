package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/internal/service"
	"github.com/MKhiriev/go-course-sync/internal/site"
	"github.com/MKhiriev/go-course-sync/models"
)

// ─────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────

var testSite = models.Site{ID: "site-1", URL: "https://lms.example.com", Token: "secret", UserID: 7}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

type fakeSiteService struct {
	mu       sync.Mutex
	sites    map[string]models.Site
	current  string
	loginErr error
	logouts  map[string]bool
}

func newFakeSiteService(sites ...models.Site) *fakeSiteService {
	f := &fakeSiteService{sites: make(map[string]models.Site), logouts: make(map[string]bool)}
	for _, s := range sites {
		f.sites[s.ID] = s
		f.current = s.ID
	}
	return f
}

func (f *fakeSiteService) Login(_ context.Context, s models.Site) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	if s.ID == "" || s.URL == "" || s.Token == "" {
		return site.ErrInvalidSite
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sites[s.ID] = s
	f.current = s.ID
	return nil
}

func (f *fakeSiteService) Logout(_ context.Context, siteID string, retain bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sites[siteID]; !ok {
		return site.ErrUnknownSite
	}
	f.logouts[siteID] = retain
	if f.current == siteID {
		f.current = ""
	}
	return nil
}

func (f *fakeSiteService) Get(_ context.Context, siteID string) (models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[siteID]
	if !ok {
		return models.Site{}, site.ErrUnknownSite
	}
	return s, nil
}

func (f *fakeSiteService) Current(ctx context.Context) (models.Site, error) {
	f.mu.Lock()
	current := f.current
	f.mu.Unlock()
	if current == "" {
		return models.Site{}, site.ErrNoCurrentSite
	}
	return f.Get(ctx, current)
}

func (f *fakeSiteService) List(_ context.Context) ([]models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Site, 0, len(f.sites))
	for _, s := range f.sites {
		out = append(out, s)
	}
	return out, nil
}

type syncCall struct {
	siteID   string
	module   models.ModuleType
	entityID int64
}

type fakeSyncService struct {
	err      error
	status   models.SyncStatus
	result   models.SyncResult
	warnings []string

	calls   []syncCall
	cleared []syncCall
	syncAll []bool
	waited  []syncCall
	blocks  map[syncCall]int
}

func (f *fakeSyncService) Status(_ context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncStatus, error) {
	f.calls = append(f.calls, syncCall{siteID, module, entityID})
	return f.status, f.err
}

func (f *fakeSyncService) Synchronize(_ context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error) {
	f.calls = append(f.calls, syncCall{siteID, module, entityID})
	return f.result, f.err
}

func (f *fakeSyncService) Warnings(_ context.Context, siteID string, module models.ModuleType, entityID int64) ([]string, error) {
	f.calls = append(f.calls, syncCall{siteID, module, entityID})
	return f.warnings, f.err
}

func (f *fakeSyncService) ClearWarnings(_ context.Context, siteID string, module models.ModuleType, entityID int64) error {
	f.cleared = append(f.cleared, syncCall{siteID, module, entityID})
	return f.err
}

func (f *fakeSyncService) SyncAll(_ context.Context, siteID string, force bool) error {
	f.calls = append(f.calls, syncCall{siteID: siteID})
	f.syncAll = append(f.syncAll, force)
	return f.err
}

func (f *fakeSyncService) Wait(_ context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error) {
	f.waited = append(f.waited, syncCall{siteID, module, entityID})
	return f.result, f.err
}

func (f *fakeSyncService) Block(_ context.Context, siteID string, module models.ModuleType, entityID int64) error {
	if f.err != nil {
		return f.err
	}
	if f.blocks == nil {
		f.blocks = make(map[syncCall]int)
	}
	f.blocks[syncCall{siteID, module, entityID}]++
	return nil
}

func (f *fakeSyncService) Unblock(_ context.Context, siteID string, module models.ModuleType, entityID int64) error {
	if f.err != nil {
		return f.err
	}
	f.blocks[syncCall{siteID, module, entityID}]--
	return nil
}

type fakePrefetchService struct {
	err       error
	statuses  map[int64]models.DownloadStatus
	aggregate models.DownloadStatus
	size      models.FileSizeSum

	prefetched models.PrefetchRequest
	removed    []models.CourseModule
	sections   [][2]int64
}

func (f *fakePrefetchService) ModuleStatus(_ context.Context, _ string, m models.CourseModule) (models.DownloadStatus, error) {
	status, ok := f.statuses[m.ID]
	if !ok {
		return "", prefetch.ErrNoHandler
	}
	return status, nil
}

func (f *fakePrefetchService) ModulesStatus(_ context.Context, _ string, modules []models.CourseModule) (models.DownloadStatus, error) {
	if len(modules) == 0 {
		return "", service.ErrValidationNoModulesProvided
	}
	return f.aggregate, f.err
}

func (f *fakePrefetchService) SectionStatus(_ context.Context, _ string, courseID, sectionID int64) (models.DownloadStatus, error) {
	f.sections = append(f.sections, [2]int64{courseID, sectionID})
	return f.aggregate, f.err
}

func (f *fakePrefetchService) DownloadSize(_ context.Context, _ string, _ []models.CourseModule) (models.FileSizeSum, error) {
	return f.size, f.err
}

func (f *fakePrefetchService) Prefetch(_ context.Context, _ string, downloadID string, modules []models.CourseModule) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(modules) == 0 {
		return "", service.ErrValidationNoModulesProvided
	}
	f.prefetched = models.PrefetchRequest{DownloadID: downloadID, Modules: modules}
	if downloadID == "" {
		downloadID = "generated"
	}
	return downloadID, nil
}

func (f *fakePrefetchService) RemoveFiles(_ context.Context, _ string, m models.CourseModule) error {
	f.removed = append(f.removed, m)
	return f.err
}

// newTestServices returns services backed by fakes and a real network
// monitor publishing on bus.
func newTestServices(bus *events.Bus) (*service.Services, *fakeSiteService, *fakeSyncService, *fakePrefetchService) {
	sites := newFakeSiteService(testSite)
	syncs := &fakeSyncService{}
	prefetches := &fakePrefetchService{statuses: map[int64]models.DownloadStatus{}}

	return &service.Services{
		SiteService:     sites,
		SyncService:     syncs,
		PrefetchService: prefetches,
		NetworkService:  network.NewMonitor(bus, network.State{Online: true, Wifi: true}),
		AppInfoService:  &mockAppInfoService{version: "test-version"},
	}, sites, syncs, prefetches
}

type testEnv struct {
	router     http.Handler
	bus        *events.Bus
	sites      *fakeSiteService
	syncs      *fakeSyncService
	prefetches *fakePrefetchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bus := events.NewBus()
	services, sites, syncs, prefetches := newTestServices(bus)
	return &testEnv{
		router:     NewHandler(services, bus, time.Second, logger.Nop()).Init(),
		bus:        bus,
		sites:      sites,
		syncs:      syncs,
		prefetches: prefetches,
	}
}

func (e *testEnv) do(method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	bus := events.NewBus()
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, bus, 5*time.Second, log)

	require.NotNil(t, h)
	assert.Equal(t, 5*time.Second, h.requestTimeout)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, bus, h.bus)
	assert.Equal(t, log, h.logger)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

var expectedRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/version"},
	{http.MethodGet, "/api/network"},
	{http.MethodPost, "/api/network"},
	{http.MethodGet, "/api/sites"},
	{http.MethodPost, "/api/sites/login"},
	{http.MethodPost, "/api/sites/site-1/logout"},
	{http.MethodPost, "/api/sync"},
	{http.MethodGet, "/api/sync/assign/42"},
	{http.MethodPost, "/api/sync/assign/42"},
	{http.MethodGet, "/api/sync/assign/42/warnings"},
	{http.MethodDelete, "/api/sync/assign/42/warnings"},
	{http.MethodPost, "/api/modules/status"},
	{http.MethodPost, "/api/modules/size"},
	{http.MethodPost, "/api/modules/prefetch"},
	{http.MethodPost, "/api/modules/remove"},
	{http.MethodGet, "/api/sections/10/3/status"},
}

func TestInit_RegistersAllRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range expectedRoutes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := env.do(tc.method, tc.path, "")

			// Registered routes may still reject the empty body with 400.
			assert.NotEqual(t, http.StatusNotFound, rec.Code, "route not found: %s %s", tc.method, tc.path)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodGet, "/api/nonexistent", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodPost, "/api/version", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_EveryResponseCarriesTraceID(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodGet, "/api/version", "")

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

// ─────────────────────────────────────────────
// Version and network
// ─────────────────────────────────────────────

func TestGetAppVersion(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodGet, "/api/version", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "test-version", rec.Body.String())
}

func TestNetworkState_ReportPublishesChange(t *testing.T) {
	env := newTestEnv(t)

	var got []models.Event
	env.bus.Subscribe(models.EventOnlineStatusChanged, func(_ context.Context, e models.Event) {
		got = append(got, e)
	})

	rec := env.do(http.MethodPost, "/api/network", `{"online":false}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/network", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"online":false,"wifi":false,"metered":false}`, rec.Body.String())

	require.Len(t, got, 1)
	assert.False(t, got[0].Online)
}

func TestNetworkState_InvalidJSON(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodPost, "/api/network", `{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
