package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredFileConfig is the on-disk shape of a JSON or YAML config file.
type StructuredFileConfig struct {
	App struct {
		Version   string `json:"version" yaml:"version"`
		LogToFile bool   `json:"log_to_file" yaml:"log_to_file"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`

		Files struct {
			Dir string `json:"dir" yaml:"dir"`
		} `json:"files,omitempty" yaml:"files,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Site struct {
		ID     string `json:"id" yaml:"id"`
		URL    string `json:"url" yaml:"url"`
		Token  string `json:"token" yaml:"token"`
		UserID int64  `json:"user_id" yaml:"user_id"`
	} `json:"site,omitempty" yaml:"site,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RetryCount     int      `json:"retry_count" yaml:"retry_count"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Sync struct {
		WifiOnly            bool     `json:"wifi_only" yaml:"wifi_only"`
		Metered             bool     `json:"metered" yaml:"metered"`
		AssignInterval      Duration `json:"assign_interval" yaml:"assign_interval"`
		LessonInterval      Duration `json:"lesson_interval" yaml:"lesson_interval"`
		QuizInterval        Duration `json:"quiz_interval" yaml:"quiz_interval"`
		MinSyncInterval     Duration `json:"min_sync_interval" yaml:"min_sync_interval"`
		PrefetchConcurrency int      `json:"prefetch_concurrency" yaml:"prefetch_concurrency"`
		ProbeInterval       Duration `json:"probe_interval" yaml:"probe_interval"`
	} `json:"sync,omitempty" yaml:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var fileCfg StructuredFileConfig
	if err := json.NewDecoder(jsonFile).Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return fileCfg.toStructured(), nil
}

func (f *StructuredFileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:   f.App.Version,
			LogToFile: f.App.LogToFile,
		},
		Storage: Storage{
			DB:    DB{DSN: f.Storage.DB.DSN},
			Files: Files{Dir: f.Storage.Files.Dir},
		},
		Site: Site{
			ID:     f.Site.ID,
			URL:    f.Site.URL,
			Token:  f.Site.Token,
			UserID: f.Site.UserID,
		},
		Server: Server{
			HTTPAddress:    f.Server.HTTPAddress,
			RequestTimeout: time.Duration(f.Server.RequestTimeout),
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
			RetryCount:     f.Adapter.RetryCount,
		},
		Sync: Sync{
			WifiOnly:            f.Sync.WifiOnly,
			Metered:             f.Sync.Metered,
			AssignInterval:      time.Duration(f.Sync.AssignInterval),
			LessonInterval:      time.Duration(f.Sync.LessonInterval),
			QuizInterval:        time.Duration(f.Sync.QuizInterval),
			MinSyncInterval:     time.Duration(f.Sync.MinSyncInterval),
			PrefetchConcurrency: f.Sync.PrefetchConcurrency,
			ProbeInterval:       time.Duration(f.Sync.ProbeInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that supports JSON and YAML
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
