// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces the client variables. COURSE_SYNC_SITE_TOKEN wins
// over SITE_TOKEN when both are set.
const EnvPrefix = "COURSE_SYNC_"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types; bare names are read
// first, then the [EnvPrefix] variants. Unset variables leave fields alone.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("error getting %s env configs: %w", EnvPrefix, err)
	}
	return nil
}
