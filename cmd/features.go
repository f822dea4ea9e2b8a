package cmd

import (
	"github.com/huangsam/leaderboard/core"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/spf13/cobra"
)

// featuresCmd lists the statistics of every feature.
var featuresCmd = &cobra.Command{
	Use:   "features <data-dir-or-url>",
	Short: "List the lead, mean and spread of every feature.",
	Long: `Print one row per feature with its leading project, the mean over all
projects and the quartiles of its values, after normalization.

Examples:
  # Show feature statistics
  leaderboard features ./data

  # Without the baseline divisor of bugs
  leaderboard features ./data --normalize 'bugs='

  # Export for a spreadsheet
  leaderboard features ./data --output csv --output-file features.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFeatures(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list features", err)
		}
	},
}
