// Package cmd defines the command-line interface for leaderboard.
package cmd

import (
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("project", "", "Show the features of this project (defaults to the first project)")
	rootCmd.PersistentFlags().String("feature", "", "Show this feature across all projects")
	rootCmd.PersistentFlags().Bool("all", false, "Show every feature of every project")
	rootCmd.PersistentFlags().String("mode", string(schema.LeadMode), "Scoring mode: lead or mean or rank")
	rootCmd.PersistentFlags().String("order", string(schema.DefaultOrder), "Sort order: project or feature or group or score or default")
	rootCmd.PersistentFlags().String("normalize", "", "Divisor overrides as target=divisor pairs, e.g. 'bugs=lines,tests='")
	rootCmd.PersistentFlags().Int("columns", contract.DefaultColumns, "Number of card columns in the grid")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("lang", contract.DefaultLanguage, "Language for feature names and labels, e.g. en or nl")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout for fetching remote tables")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend for remote tables: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached remote tables stay fresh")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for snapshots (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored scores in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in progress messages (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of boardCmd to Viper
	boardCmd.Flags().String("drop", "", "Drops to replay, e.g. 'lines@beta>bugs@beta;tests@beta>'")
	if err := viper.BindPFlags(boardCmd.Flags()); err != nil {
		contract.LogFatal("Error binding board flags", err)
	}

	// Bind all flags of snapshotMigrateCmd to Viper
	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
