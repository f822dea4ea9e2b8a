package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateSnapshots runs database migrations for the snapshot store.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func MigrateSnapshots(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return errors.New("migrations are not supported for the none backend")
	}
	db, err := openMigrationDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrate(db, backend)
	if err != nil {
		return err
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Printf("No migration needed. Database is already at version %d\n", current)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate snapshot store: %w", err)
	}

	next, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		next, err = 0, nil
	}
	if err != nil {
		return fmt.Errorf("failed to read new migration version: %w", err)
	}
	fmt.Printf("Successfully migrated from version %d to version %d\n", current, next)
	return nil
}

// SnapshotSchemaVersion returns the applied migration version, 0 when none.
func SnapshotSchemaVersion(backend schema.DatabaseBackend, connStr string) (uint, bool, error) {
	db, err := openMigrationDB(backend, connStr)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrate(db, backend)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// openMigrationDB opens the snapshot database for running migrations.
func openMigrationDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	dsn, err := migrationConnString(backend, connStr)
	if err != nil {
		return nil, err
	}
	return openDB(backend, dsn, contract.GetSnapshotDBFilePath())
}

// newMigrate binds the embedded migrations of backend to db.
func newMigrate(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MultiStatementEnabled: true})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "leaderboard", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
