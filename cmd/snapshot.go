package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/iocache"
	"github.com/huangsam/leaderboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotConfig reads and validates the snapshot backend settings.
func snapshotConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("snapshot-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("snapshot-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// snapshotSetup loads minimal configuration needed for snapshot operations.
func snapshotSetup() error {
	backend, connStr, err := snapshotConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no source cache for snapshot commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup loads the snapshot settings without opening the store,
// allowing migrations to run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := snapshotConfig()
	if err != nil {
		return err
	}
	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	return nil
}

// snapshotCmd focused on recorded boards.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage recorded boards and exports",
	Long: `Manage the history of boards recorded by 'leaderboard board'.

When --snapshot-backend is set, every board run stores:
- The session, scope, selection, scoring mode and sort order
- The normalization in effect
- Every card with its value, score and class

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show snapshot statistics
  export  - Export snapshots to Parquet
  clear   - Remove all snapshots
  migrate - Run database schema migrations

Examples:
  # Check snapshot status
  leaderboard snapshot status --snapshot-backend sqlite

  # Export for analysis in pandas/DuckDB
  leaderboard snapshot export --snapshot-backend sqlite --output-file history`,
}

// snapshotClearCmd clears the recorded snapshots.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded boards",
	Long: `Delete every recorded board and card.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  leaderboard snapshot export --output-file backup
  leaderboard snapshot clear`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The store holds the SQLite file open
		iocache.CloseStores()
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, sqliteFile(cfg.SnapshotDBConnect, contract.GetSnapshotDBFilePath()), cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotStatusCmd shows snapshot status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot statistics and connection details",
	Long: `Show the backend, the number of recorded boards and cards, the newest
and oldest record times and the size of each table.

Examples:
  # Check snapshot status
  leaderboard snapshot status`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(os.Stdout, status)
	},
}

// snapshotExportCmd exports snapshots to Parquet files.
var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded boards to Parquet",
	Long: `Export all recorded boards to two Parquet files:
  <output-file>.snapshot_runs.parquet  one row per recorded board
  <output-file>.card_scores.parquet    one row per recorded card

Requires: --output-file parameter

Examples:
  # Export all data
  leaderboard snapshot export --output-file history

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('history.card_scores.parquet') LIMIT 10"`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteSnapshotExport(os.Stdout, iocache.Manager.GetSnapshotStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}

// snapshotMigrateCmd runs database migrations for the snapshot store.
var snapshotMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  leaderboard snapshot migrate --snapshot-backend sqlite

  # Migrate to specific version
  leaderboard snapshot migrate --target-version 1

  # Rollback to initial state
  leaderboard snapshot migrate --target-version 0`,
	PreRunE: snapshotMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
