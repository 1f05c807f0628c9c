package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-course-sync/internal/client"
	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("course-sync").Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = info.BuildVersion()
	}

	log := logger.NewLogger("course-sync")
	if cfg.App.LogToFile {
		log = logger.NewClientLogger("course-sync", "")
	}
	log.Debug().Any("config", redacted(cfg)).Msg("received configs")
	if !info.Known() {
		log.Warn().Msg("build version was not set at link time")
	}

	app, err := client.NewApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func redacted(cfg *config.ClientConfig) config.ClientConfig {
	out := *cfg
	if out.Site.Token != "" {
		out.Site.Token = "***"
	}
	return out
}
