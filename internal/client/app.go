package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/handler"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/modules/assign"
	"github.com/MKhiriev/go-course-sync/internal/modules/lesson"
	"github.com/MKhiriev/go-course-sync/internal/modules/quiz"
	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/internal/server"
	"github.com/MKhiriev/go-course-sync/internal/service"
	"github.com/MKhiriev/go-course-sync/internal/site"
	"github.com/MKhiriev/go-course-sync/internal/status"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/internal/workers"
	"github.com/MKhiriev/go-course-sync/models"
)

// App owns every long-lived component of the sync client.
type App struct {
	cfg *config.ClientConfig

	store    store.LocalStore
	sites    *site.Manager
	tracker  *status.Tracker
	registry *syncer.Registry
	workers  *workers.Workers
	server   server.Server

	// unsubscribe stops the bus listeners of the tracker and the coordinator.
	unsubscribe func()

	logger *logger.Logger
}

// NewApp opens the local store and wires the modules, sync providers,
// prefetch delegate, background workers and the control API.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	ctx = log.WithContext(ctx)

	st, err := store.NewLocalStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}

	app, err := newApp(ctx, cfg, st, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, st store.LocalStore, log *logger.Logger) (*App, error) {
	bus := events.NewBus()

	ws := adapter.NewCachedWebService(adapter.NewHTTPWebService(cfg.Adapter), st)
	manifest := adapter.NewFileManifest(ws)
	pool := adapter.NewDiskFilePool(cfg.Storage, cfg.Adapter)

	assignModule := assign.New(st, ws, manifest, bus)
	lessonModule := lesson.New(st, ws, manifest, bus)
	quizModule := quiz.New(st, ws, manifest, bus)

	monitor := network.NewMonitor(bus, network.State{
		Online:  true,
		Wifi:    !cfg.Sync.Metered,
		Metered: cfg.Sync.Metered,
	})

	coord := syncer.NewCoordinator()
	policy := syncer.Policy{WifiOnly: cfg.Sync.WifiOnly, MinSyncInterval: cfg.Sync.MinSyncInterval}
	assignSync := syncer.NewModuleSyncer(assignModule.Sync, coord, st, bus, monitor, policy)
	lessonSync := syncer.NewModuleSyncer(lessonModule.Sync, coord, st, bus, monitor, policy)
	quizSync := syncer.NewModuleSyncer(quizModule.Sync, coord, st, bus, monitor, policy)
	registry := syncer.NewRegistry(assignSync, lessonSync, quizSync)

	tracker := status.NewTracker(st, bus)
	unblockOnLogout := coord.UnblockOnLogout(bus)
	unsubscribe := func() {
		unblockOnLogout()
		tracker.Close()
	}
	delegate := prefetch.NewDelegate(tracker, pool, registry, bus, cfg.Sync,
		assignModule.Handler, lessonModule.Handler, quizModule.Handler)

	var schemas []store.TableSchema
	schemas = append(schemas, assignModule.Sync.Schemas()...)
	schemas = append(schemas, lessonModule.Sync.Schemas()...)
	schemas = append(schemas, quizModule.Sync.Schemas()...)
	schemas = append(schemas, syncer.Schemas()...)
	schemas = append(schemas, adapter.CacheSchema(), status.Schema())

	sites := site.NewManager(st, bus, schemas...)
	if err := sites.Init(ctx); err != nil {
		unsubscribe()
		return nil, fmt.Errorf("init sites: %w", err)
	}

	prober := network.NewProber(monitor, cfg.Sync, cfg.Adapter, func() []string {
		return siteURLs(sites)
	})

	services, err := service.NewServices(sites, registry, delegate, monitor, cfg.App, log)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("create services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, bus, cfg.Server, log)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("create handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("create server: %w", err)
	}

	return &App{
		cfg:      cfg,
		store:    st,
		sites:    sites,
		tracker:  tracker,
		registry: registry,
		workers: workers.NewWorkers(
			workers.NewSyncJob(string(models.ModuleAssign), assignSync, sites, cfg.Sync.AssignInterval),
			workers.NewSyncJob(string(models.ModuleLesson), lessonSync, sites, cfg.Sync.LessonInterval),
			workers.NewSyncJob(string(models.ModuleQuiz), quizSync, sites, cfg.Sync.QuizInterval),
			workers.NewEventTrigger(bus, registry, sites),
			workers.NewProberWorker(prober),
		),
		server:      srv,
		unsubscribe: unsubscribe,
		logger:      log,
	}, nil
}

func siteURLs(sites *site.Manager) []string {
	list, err := sites.List(context.Background())
	if err != nil {
		return nil
	}
	urls := make([]string, 0, len(list))
	for _, s := range list {
		urls = append(urls, s.URL)
	}
	return urls
}

// configuredSite returns the site given in the configuration. A site without
// an explicit id gets one derived from its URL and user.
func configuredSite(cfg config.ClientSite) (models.Site, bool) {
	if cfg.URL == "" {
		return models.Site{}, false
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(cfg.URL+"#"+strconv.FormatInt(cfg.UserID, 10))).String()
	}
	return models.Site{ID: id, URL: cfg.URL, Token: cfg.Token, UserID: cfg.UserID}, true
}

// Run logs in the configured site, starts the workers and serves the control
// API until SIGINT, SIGTERM or SIGQUIT.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		a.logger.WithContext(context.Background()),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.close()

	if s, ok := configuredSite(a.cfg.Site); ok {
		if err := a.sites.Login(ctx, s); err != nil {
			return fmt.Errorf("login configured site: %w", err)
		}
	}

	a.workers.Run(ctx)
	defer a.workers.Stop()

	a.logger.Info().
		Str("func", "App.Run").
		Str("address", a.cfg.Server.HTTPAddress).
		Msg("sync client started")

	err := a.server.RunServer(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run server: %w", err)
	}

	a.logger.Info().Str("func", "App.Run").Msg("sync client stopped")
	return nil
}

func (a *App) close() {
	a.unsubscribe()
	if err := a.store.Close(); err != nil {
		a.logger.Err(err).Str("func", "App.close").Msg("failed to close local store")
	}
}
