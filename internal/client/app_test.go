package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

func testConfig(t *testing.T, siteURL string) *config.ClientConfig {
	t.Helper()

	return &config.ClientConfig{
		App:     config.ClientApp{Version: "test"},
		Site:    config.ClientSite{ID: "site-1", URL: siteURL, Token: "token", UserID: 7},
		Adapter: config.ClientAdapter{RequestTimeout: time.Second},
		Server:  config.ClientServer{HTTPAddress: "127.0.0.1:0", RequestTimeout: time.Second},
		Storage: config.ClientStorage{
			DB:       config.ClientDB{DSN: ":memory:"},
			FilesDir: t.TempDir(),
		},
		Sync: config.ClientSync{
			AssignInterval:      time.Hour,
			LessonInterval:      time.Hour,
			QuizInterval:        time.Hour,
			PrefetchConcurrency: 2,
			ProbeInterval:       time.Hour,
		},
	}
}

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConfiguredSite(t *testing.T) {
	t.Run("no url", func(t *testing.T) {
		_, ok := configuredSite(config.ClientSite{Token: "t"})
		assert.False(t, ok)
	})

	t.Run("explicit id", func(t *testing.T) {
		s, ok := configuredSite(config.ClientSite{ID: "mine", URL: "https://lms.example.com", Token: "t", UserID: 3})
		require.True(t, ok)
		assert.Equal(t, models.Site{ID: "mine", URL: "https://lms.example.com", Token: "t", UserID: 3}, s)
	})

	t.Run("derived id is stable per url and user", func(t *testing.T) {
		cfg := config.ClientSite{URL: "https://lms.example.com", Token: "t", UserID: 3}
		first, ok := configuredSite(cfg)
		require.True(t, ok)
		second, _ := configuredSite(cfg)
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, first.ID, second.ID)

		cfg.UserID = 4
		other, _ := configuredSite(cfg)
		assert.NotEqual(t, first.ID, other.ID)
	})
}

func TestNewApp_NoServerAddress(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Server.HTTPAddress = ""

	_, err := NewApp(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestApp_RunLogsInConfiguredSiteAndStops(t *testing.T) {
	site := newSiteServer(t)
	app, err := NewApp(context.Background(), testConfig(t, site.URL), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(logger.Nop().WithContext(context.Background()))
	done := make(chan error, 1)
	go func() { done <- app.run(ctx) }()

	require.Eventually(t, func() bool {
		current, err := app.sites.Current(context.Background())
		return err == nil && current.ID == "site-1"
	}, 2*time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t,
		[]models.ModuleType{models.ModuleAssign, models.ModuleLesson, models.ModuleQuiz},
		app.registry.Modules())

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancellation")
	}
}

func TestApp_RunFailsOnInvalidConfiguredSite(t *testing.T) {
	cfg := testConfig(t, "https://lms.example.com")
	cfg.Site.Token = ""

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	err = app.run(context.Background())
	require.Error(t, err)
}

func TestApp_LogoutReleasesSyncBlocks(t *testing.T) {
	site := newSiteServer(t)
	app, err := NewApp(context.Background(), testConfig(t, site.URL), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(app.close)

	ctx := logger.Nop().WithContext(context.Background())
	s, ok := configuredSite(app.cfg.Site)
	require.True(t, ok)
	require.NoError(t, app.sites.Login(ctx, s))

	p, err := app.registry.Get(models.ModuleQuiz)
	require.NoError(t, err)
	p.BlockSync(s.ID, 8)
	require.True(t, p.IsBlocked(s.ID, 8))

	require.NoError(t, app.sites.Logout(ctx, s.ID, true))
	assert.False(t, p.IsBlocked(s.ID, 8))
}
