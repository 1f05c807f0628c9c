package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	Version   string
	LogToFile bool
}

// ClientSite is the site logged in at startup. An empty URL means none.
type ClientSite struct {
	ID     string
	URL    string
	Token  string
	UserID int64
}

// ClientAdapter holds settings used by the web-service client.
type ClientAdapter struct {
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// RetryCount is how many times a transient failure is retried.
	RetryCount int
}

// ClientServer holds the local control API settings.
type ClientServer struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite path, ":memory:" or a ".json" snapshot path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local store settings.
	DB ClientDB
	// FilesDir is where downloaded package files are written.
	FilesDir string
}

// ClientSync contains sync, prefetch and network policy settings.
type ClientSync struct {
	WifiOnly            bool
	Metered             bool
	AssignInterval      time.Duration
	LessonInterval      time.Duration
	QuizInterval        time.Duration
	MinSyncInterval     time.Duration
	PrefetchConcurrency int
	ProbeInterval       time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Site    ClientSite
	Adapter ClientAdapter
	Server  ClientServer
	Storage ClientStorage
	Sync    ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields of cfg relevant to the client runtime.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Version:   cfg.App.Version,
			LogToFile: cfg.App.LogToFile,
		},
		Site: ClientSite{
			ID:     cfg.Site.ID,
			URL:    cfg.Site.URL,
			Token:  cfg.Site.Token,
			UserID: cfg.Site.UserID,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Server: ClientServer{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Storage: ClientStorage{
			DB:       ClientDB{DSN: cfg.Storage.DB.DSN},
			FilesDir: cfg.Storage.Files.Dir,
		},
		Sync: ClientSync{
			WifiOnly:            cfg.Sync.WifiOnly,
			Metered:             cfg.Sync.Metered,
			AssignInterval:      cfg.Sync.AssignInterval,
			LessonInterval:      cfg.Sync.LessonInterval,
			QuizInterval:        cfg.Sync.QuizInterval,
			MinSyncInterval:     cfg.Sync.MinSyncInterval,
			PrefetchConcurrency: cfg.Sync.PrefetchConcurrency,
			ProbeInterval:       cfg.Sync.ProbeInterval,
		},
	}
}
