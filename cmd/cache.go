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

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no snapshots for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// sqliteFile returns the SQLite file behind connStr, or the default path.
func sqliteFile(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cache of remote tables",
	Long: `Manage the cache of tables fetched from an http(s) data source.

Leaderboard keeps every downloaded table body with its fetch time and reuses
it until it is older than --cache-ttl. Local directories are never cached.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached tables

Examples:
  # Check cache status
  leaderboard cache status

  # Force fresh downloads on the next run
  leaderboard cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached tables",
	Long: `Delete all cached table bodies from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  leaderboard cache clear

  # Clear MySQL cache (set connection string via env variable)
  LEADERBOARD_CACHE_BACKEND=mysql LEADERBOARD_CACHE_DB_CONNECT="..." leaderboard cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The store holds the SQLite file open
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFile(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached tables, the newest and oldest
fetch times and the size of the cache table.

Examples:
  # Check cache status
  leaderboard cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSourceStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
