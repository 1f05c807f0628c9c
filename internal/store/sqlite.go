package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/migrations"
)

// DB wraps the SQLite connection used by the local store.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		db.logger.Info().Str("func", "DB.Migrate").Ints64("versions", applied).Msg("local store migrated")
	}
	return nil
}

// NewConnectSQLite opens (creating if needed) the SQLite database at cfg.DSN
// and verifies the connection.
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", cfg.DSN+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
	// between our own goroutines.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB dir: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

type sqliteStore struct {
	db     *DB
	logger *logger.Logger

	mu      sync.RWMutex
	schemas map[string]TableSchema
	now     func() time.Time
}

// NewSQLiteStore returns a LocalStore persisted in db. Record data is stored
// snappy-compressed.
func NewSQLiteStore(db *DB, log *logger.Logger) LocalStore {
	return &sqliteStore{
		db:      db,
		logger:  log,
		schemas: make(map[string]TableSchema),
		now:     time.Now,
	}
}

func schemaCacheKey(siteID, table string) string {
	return siteID + "\x00" + table
}

func (s *sqliteStore) CreateTable(ctx context.Context, siteID string, schema TableSchema) error {
	log := logger.FromContext(ctx)

	indexes := schema.Indexes
	existing, err := s.schema(ctx, siteID, schema.Name)
	switch {
	case err == nil:
		indexes = mergeIndexes(existing.Indexes, schema.Indexes)
	case !errors.Is(err, ErrStoreNotInitialized):
		return err
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, upsertTable, siteID, schema.Name, strings.Join(indexes, ","))
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteStore.CreateTable").
			Str("site_id", siteID).
			Str("table", schema.Name).
			Msg("failed to register table")
		return fmt.Errorf("%w: create table %s: %v", ErrExecutingStatement, schema.Name, err)
	}

	s.mu.Lock()
	s.schemas[schemaCacheKey(siteID, schema.Name)] = TableSchema{Name: schema.Name, Indexes: indexes}
	s.mu.Unlock()

	return nil
}

func (s *sqliteStore) Get(ctx context.Context, siteID, table string, key Key) (Record, error) {
	if _, err := s.schema(ctx, siteID, table); err != nil {
		return Record{}, err
	}

	query, args, err := buildSelectRecordQuery(siteID, table, key)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var data []byte
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteStore.Get").
			Str("site_id", siteID).
			Str("table", table).
			Str("key", string(key)).
			Msg("failed to read record")
		return Record{}, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCompressedData, err)
	}
	return Record{Key: key, Data: decoded}, nil
}

func (s *sqliteStore) Insert(ctx context.Context, siteID, table string, rec Record) error {
	schema, err := s.schema(ctx, siteID, table)
	if err != nil {
		return err
	}
	for _, idx := range schema.Indexes {
		if _, ok := rec.Indexes[idx]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingIndexValue, table, idx)
		}
	}

	data := snappy.Encode(nil, rec.Data)
	return s.inTx(ctx, "sqliteStore.Insert", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertRecord, siteID, table, string(rec.Key), data, s.now().UnixMilli()); err != nil {
			return fmt.Errorf("%w: upsert record: %v", ErrExecutingStatement, err)
		}

		query, args, err := buildDeleteIndexesQuery(siteID, table, sq.Eq{"record_key": string(rec.Key)})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: delete indexes: %v", ErrExecutingStatement, err)
		}

		if len(schema.Indexes) == 0 {
			return nil
		}
		query, args, err = buildInsertIndexesQuery(siteID, table, rec, schema.Indexes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insert indexes: %v", ErrExecutingStatement, err)
		}
		return nil
	})
}

func (s *sqliteStore) Remove(ctx context.Context, siteID, table string, key Key) error {
	if _, err := s.schema(ctx, siteID, table); err != nil {
		return err
	}

	return s.inTx(ctx, "sqliteStore.Remove", func(tx *sql.Tx) error {
		return deleteKeys(ctx, tx, siteID, table, sq.Eq{"record_key": string(key)})
	})
}

func (s *sqliteStore) RemoveWhere(ctx context.Context, siteID, table, index, value string) error {
	schema, err := s.schema(ctx, siteID, table)
	if err != nil {
		return err
	}
	if !schema.HasIndex(index) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownIndex, table, index)
	}

	keys := sq.Select("record_key").From(indexesTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table, "index_name": index, "index_value": value})
	sub, subArgs, err := keys.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "sqliteStore.RemoveWhere", func(tx *sql.Tx) error {
		return deleteKeys(ctx, tx, siteID, table, sq.Expr("record_key IN ("+sub+")", subArgs...))
	})
}

func (s *sqliteStore) Query(ctx context.Context, siteID, table, index, value string) ([]Record, error) {
	schema, err := s.schema(ctx, siteID, table)
	if err != nil {
		return nil, err
	}
	if !schema.HasIndex(index) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, table, index)
	}

	query, args, err := buildQueryByIndexQuery(siteID, table, index, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return s.selectRecords(ctx, "sqliteStore.Query", query, args)
}

func (s *sqliteStore) All(ctx context.Context, siteID, table string) ([]Record, error) {
	if _, err := s.schema(ctx, siteID, table); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("record_key", "data").From(recordsTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return s.selectRecords(ctx, "sqliteStore.All", query, args)
}

func (s *sqliteStore) DeleteSite(ctx context.Context, siteID string) error {
	err := s.inTx(ctx, "sqliteStore.DeleteSite", func(tx *sql.Tx) error {
		for _, table := range []string{indexesTable, recordsTable, tablesTable} {
			query, args, err := sq.Delete(table).Where(sq.Eq{"site_id": siteID}).ToSql()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: delete from %s: %v", ErrExecutingStatement, table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for key := range s.schemas {
		if strings.HasPrefix(key, siteID+"\x00") {
			delete(s.schemas, key)
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) schema(ctx context.Context, siteID, table string) (TableSchema, error) {
	s.mu.RLock()
	schema, ok := s.schemas[schemaCacheKey(siteID, table)]
	s.mu.RUnlock()
	if ok {
		return schema, nil
	}

	query, args, err := sq.Select("indexes").From(tablesTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table}).
		ToSql()
	if err != nil {
		return TableSchema{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var indexes string
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&indexes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TableSchema{}, fmt.Errorf("%w: %s/%s", ErrStoreNotInitialized, siteID, table)
		}
		return TableSchema{}, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	schema = TableSchema{Name: table}
	if indexes != "" {
		schema.Indexes = strings.Split(indexes, ",")
	}

	s.mu.Lock()
	s.schemas[schemaCacheKey(siteID, table)] = schema
	s.mu.Unlock()
	return schema, nil
}

func (s *sqliteStore) selectRecords(ctx context.Context, fn, query string, args []any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("failed to query records")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			key  string
			data []byte
		)
		if err = rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompressedData, err)
		}
		records = append(records, Record{Key: Key(key), Data: decoded})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
	}

	return records, nil
}

func (s *sqliteStore) inTx(ctx context.Context, fn string, body func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	return s.withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			log.Err(err).Str("func", fn).Msg("failed to begin transaction")
			return fmt.Errorf("%w: %v", ErrBeginningTransaction, err)
		}

		if err = body(tx); err != nil {
			_ = tx.Rollback()
			log.Err(err).Str("func", fn).Msg("transaction rolled back")
			return err
		}

		if err = tx.Commit(); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to commit transaction")
			return fmt.Errorf("%w: %v", ErrCommitingTransaction, err)
		}
		return nil
	})
}

// withRetry reruns op while the classifier reports lock contention.
func (s *sqliteStore) withRetry(ctx context.Context, op func() error) error {
	const attempts = 3

	var err error
	for i := range attempts {
		if err = op(); err == nil {
			return nil
		}
		if s.db.errorClassificator == nil || s.db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 50 * time.Millisecond):
		}
	}
	return err
}

func deleteKeys(ctx context.Context, tx *sql.Tx, siteID, table string, pred sq.Sqlizer) error {
	query, args, err := buildDeleteIndexesQuery(siteID, table, pred)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	recQuery, recArgs, err := sq.Delete(recordsTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table}).
		Where(pred).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	// records first: the index rows are what the predicate may select on
	if _, err = tx.ExecContext(ctx, recQuery, recArgs...); err != nil {
		return fmt.Errorf("%w: delete records: %v", ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: delete indexes: %v", ErrExecutingStatement, err)
	}
	return nil
}

func buildSelectRecordQuery(siteID, table string, key Key) (string, []any, error) {
	return sq.Select("data").From(recordsTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table, "record_key": string(key)}).
		ToSql()
}

func buildQueryByIndexQuery(siteID, table, index, value string) (string, []any, error) {
	return sq.Select("r.record_key", "r.data").
		From(recordsTable + " r").
		Join(indexesTable + " i ON i.site_id = r.site_id AND i.table_name = r.table_name AND i.record_key = r.record_key").
		Where(sq.Eq{
			"i.site_id":     siteID,
			"i.table_name":  table,
			"i.index_name":  index,
			"i.index_value": value,
		}).
		OrderBy("r.seq").
		ToSql()
}

func buildDeleteIndexesQuery(siteID, table string, pred sq.Sqlizer) (string, []any, error) {
	return sq.Delete(indexesTable).
		Where(sq.Eq{"site_id": siteID, "table_name": table}).
		Where(pred).
		ToSql()
}

func buildInsertIndexesQuery(siteID, table string, rec Record, indexes []string) (string, []any, error) {
	b := sq.Insert(indexesTable).Columns("site_id", "table_name", "index_name", "index_value", "record_key")
	for _, idx := range indexes {
		b = b.Values(siteID, table, idx, rec.Indexes[idx], string(rec.Key))
	}
	return b.ToSql()
}

func mergeIndexes(existing, added []string) []string {
	out := append([]string(nil), existing...)
	for _, idx := range added {
		found := false
		for _, e := range out {
			if e == idx {
				found = true
				break
			}
		}
		if !found {
			out = append(out, idx)
		}
	}
	return out
}
