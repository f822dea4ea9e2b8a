package cmd

import (
	"github.com/huangsam/leaderboard/core"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/spf13/cobra"
)

// boardCmd scores the selected cards and prints the board.
var boardCmd = &cobra.Command{
	Use:   "board <data-dir-or-url>",
	Short: "Show the scored cards of a project, a feature or everything.",
	Long: `Load the feature tables and score every selected card against the leader
of its feature.

The data source is a directory or an http(s) base URL holding:
  project_features.json               values per project and feature (required)
  project_features_normalize.json     divisor feature per feature
  project_features_localization.json  feature names per language
  project_features_links.json         where each value was taken from
  project_features_groups.json        related features, used by --order group

Scoring modes:
  lead  value as a percentage of the best value of the feature
  mean  value as a percentage of the mean value of the feature
  rank  1-based position of the value among all projects

Drops replay drag gestures. Dropping a card on a card of another feature
normalizes the target feature by the dragged one, dropping it again clears
that divisor, and dropping on a card of the same feature swaps the two.

Examples:
  # Show the first project
  leaderboard board ./data

  # Compare every project on one feature, ranked
  leaderboard board ./data --feature tests --mode rank --order score

  # Normalize bugs by lines, then write JSON
  leaderboard board ./data --project beta --drop 'lines@beta>bugs@beta' --output json

  # Record every run for later export
  leaderboard board https://example.org/board --snapshot-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBoard(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build board", err)
		}
	},
}
