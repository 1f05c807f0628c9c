// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks invariants of the merged [StructuredConfig] that do not
// depend on the runtime view.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.PrefetchConcurrency < 0 || cfg.Adapter.RetryCount < 0 {
		return ErrInvalidSyncConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.FilesDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.AssignInterval <= 0 || cfg.Sync.LessonInterval <= 0 ||
		cfg.Sync.QuizInterval <= 0 || cfg.Sync.PrefetchConcurrency <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Site.URL != "" && cfg.Site.Token == "" {
		return ErrInvalidSiteConfigs
	}

	return nil
}
