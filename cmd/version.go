package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of leaderboard.",
	Long: `Display the release version, commit, build time and Go runtime.

Builds made with 'go install' have no release metadata, so the module
version recorded by the Go toolchain is shown instead.`,
	Run: func(cmd *cobra.Command, _ []string) {
		v := version
		if v == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				v = info.Main.Version
			}
		}
		cmd.Printf("leaderboard CLI\n")
		cmd.Printf("  Version: %s\n", v)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
