package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
)

// NewLocalStore initialises the client storage layer from cfg:
//   - ":memory:" (or an empty DSN) keeps everything in process memory;
//   - a path ending in ".json" uses the memory store persisted to that file;
//   - anything else is opened as a SQLite database and migrated.
func NewLocalStore(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (LocalStore, error) {
	dsn := cfg.DB.DSN
	log.Info().Str("func", "NewLocalStore").Str("dsn", dsn).Msg("creating local store...")

	if dsn == "" || dsn == ":memory:" || strings.HasSuffix(dsn, ".json") {
		return NewMemoryStore(dsn)
	}

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewSQLiteStore(db, log), nil
}
