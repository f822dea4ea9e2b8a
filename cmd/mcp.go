package cmd

import (
	"github.com/huangsam/leaderboard/core"
	"github.com/huangsam/leaderboard/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp <data-dir-or-url>",
	Short: "Start the Leaderboard MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents inspect the board,
select cards, change the scoring mode and sort order, and drop cards on each
other. All tools share one session that starts from the configured selection.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Progress logs are suppressed per request so stdio stays clean
		// for the protocol.
		return sharedSetup(core.WithSuppressHeader(rootCtx), cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
