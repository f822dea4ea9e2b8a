// main is the entry point of the leaderboard CLI.
package main

import (
	"github.com/huangsam/leaderboard/cmd"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Deferred cleanup does not run after os.Exit
	iocache.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("failed to stop profiling", perr)
	}

	if err != nil {
		contract.LogFatal("error", err)
	}
}
