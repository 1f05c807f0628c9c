package config

import "time"

// Default values applied before any other configuration source.
const (
	DefaultDSN                 = "course-sync.db"
	DefaultFilesDir            = "files"
	DefaultHTTPAddress         = "localhost:8085"
	DefaultRequestTimeout      = 30 * time.Second
	DefaultRetryCount          = 2
	DefaultAssignInterval      = 5 * time.Minute
	DefaultLessonInterval      = 10 * time.Minute
	DefaultQuizInterval        = 10 * time.Minute
	DefaultMinSyncInterval     = 5 * time.Minute
	DefaultPrefetchConcurrency = 4
	DefaultProbeInterval       = time.Minute
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB:    DB{DSN: DefaultDSN},
			Files: Files{Dir: DefaultFilesDir},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
			RetryCount:     DefaultRetryCount,
		},
		Sync: Sync{
			AssignInterval:      DefaultAssignInterval,
			LessonInterval:      DefaultLessonInterval,
			QuizInterval:        DefaultQuizInterval,
			MinSyncInterval:     DefaultMinSyncInterval,
			PrefetchConcurrency: DefaultPrefetchConcurrency,
			ProbeInterval:       DefaultProbeInterval,
		},
	}
}
