package iocache

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

// sourceTable is the name of the table for cached table bodies.
const sourceTable = "source_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager. An empty backend leaves the
// corresponding store nil.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, snapshotBackend schema.DatabaseBackend, snapshotConnStr string) error {
	var initErr error
	initOnce.Do(func() {
		source, snapshots, err := openStores(cacheBackend, cacheConnStr, snapshotBackend, snapshotConnStr)
		if err != nil {
			initErr = err
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.source = source
		Manager.snapshots = snapshots
	})
	return initErr
}

// NewStoreManager opens stores outside of the global manager. The caller owns
// the result and must close it with Close.
func NewStoreManager(cacheBackend schema.DatabaseBackend, cacheConnStr string, snapshotBackend schema.DatabaseBackend, snapshotConnStr string) (*StoreManager, error) {
	source, snapshots, err := openStores(cacheBackend, cacheConnStr, snapshotBackend, snapshotConnStr)
	if err != nil {
		return nil, err
	}
	return &StoreManager{source: source, snapshots: snapshots}, nil
}

func openStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, snapshotBackend schema.DatabaseBackend, snapshotConnStr string) (contract.CacheStore, contract.SnapshotStore, error) {
	var source contract.CacheStore
	if cacheBackend != "" {
		store, err := NewSourceStore(sourceTable, cacheBackend, cacheConnStr)
		if err != nil {
			return nil, nil, err
		}
		source = store
	}

	var snapshots contract.SnapshotStore
	if snapshotBackend != "" {
		store, err := NewSnapshotStore(snapshotBackend, snapshotConnStr)
		if err != nil {
			if source != nil {
				_ = source.Close()
			}
			return nil, nil, err
		}
		snapshots = store
	}
	return source, snapshots, nil
}

// Close closes both stores.
func (mgr *StoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	var errs []error
	if mgr.source != nil {
		errs = append(errs, mgr.source.Close())
		mgr.source = nil
	}
	if mgr.snapshots != nil {
		errs = append(errs, mgr.snapshots.Close())
		mgr.snapshots = nil
	}
	return errors.Join(errs...)
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		if err := Manager.Close(); err != nil {
			contract.LogWarn("failed to close stores", err)
		}
	})
}

// ClearCache removes cached table bodies. SQLite removes the database file,
// server backends drop the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, sourceTable)
}

// ClearSnapshots removes every recorded snapshot, including the migration state.
func ClearSnapshots(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, append(slices.Clone(SnapshotTables), "schema_migrations")...)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, tables...)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
