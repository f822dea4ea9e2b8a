// Package iocache persists remote table bodies and board snapshots in SQL databases.
package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

// SourceStoreImpl caches raw table bodies keyed by URL.
type SourceStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &SourceStoreImpl{} // Compile-time check

// NewSourceStore opens the source cache. The none backend gives a store that
// never hits and silently drops writes.
func NewSourceStore(tableName string, backend schema.DatabaseBackend, connStr string) (*SourceStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	store := &SourceStoreImpl{tableName: tableName, backend: backend, connStr: connStr}
	if backend == schema.NoneBackend {
		return store, nil
	}

	db, err := openDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize source cache: %w", err)
	}
	if _, err := db.Exec(sourceTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	store.db = db
	return store, nil
}

// sourceTableQuery returns the CREATE TABLE query for the given backend.
func sourceTableQuery(tableName string, backend schema.DatabaseBackend) string {
	keyType, blobType, intType := "TEXT", "BLOB", "INTEGER"
	switch backend {
	case schema.MySQLBackend:
		keyType, intType = "VARCHAR(512)", "BIGINT"
		blobType = "LONGBLOB"
	case schema.PostgreSQLBackend:
		blobType, intType = "BYTEA", "BIGINT"
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			cache_key %s PRIMARY KEY,
			cache_value %s NOT NULL,
			cache_version INTEGER NOT NULL,
			cache_timestamp %s NOT NULL
		)`, quoteTableName(tableName, backend), keyType, blobType, intType)
}

// Get returns the body, version and timestamp stored under key.
// A miss returns sql.ErrNoRows.
func (s *SourceStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if s.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}
	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(s.tableName, s.backend), placeholders(s.backend, 1, 1))

	var value []byte
	var version int
	var ts int64
	if err := s.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the body stored under key.
func (s *SourceStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(s.upsertQuery(), key, value, version, timestamp)
	return err
}

func (s *SourceStoreImpl) upsertQuery() string {
	table := quoteTableName(s.tableName, s.backend)
	columns := "cache_key, cache_value, cache_version, cache_timestamp"
	values := placeholders(s.backend, 1, 4)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`,
			table, columns, values)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`,
			table, columns, values)
	default:
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, table, columns, values)
	}
}

// Close closes the underlying DB connection.
func (s *SourceStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns entry counts, entry age and table size.
func (s *SourceStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	table := quoteTableName(s.tableName, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var oldest, latest int64
	query := fmt.Sprintf("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", table)
	if err := s.db.QueryRow(query).Scan(&oldest, &latest); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.LastEntryTime = time.Unix(latest, 0)
	status.TableSizeBytes = tableSizeBytes(s.db, s.backend, s.connStr, s.tableName, status.TotalEntries)
	return status, nil
}
