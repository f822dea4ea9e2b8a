package outwriter

import (
	"os"

	"github.com/huangsam/leaderboard/internal/contract"
	"golang.org/x/term"
)

// Bounds of the title column in table output.
const (
	minTitleWidth = 12
	maxTitleWidth = 60
)

// GetMaxTableTitleWidth calculates the maximum width for card titles in table
// output based on terminal width and the fixed columns next to them.
func GetMaxTableTitleWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	available := termWidth - fixedWidth
	if available < minTitleWidth {
		return minTitleWidth
	}
	if available > maxTitleWidth {
		return maxTitleWidth
	}
	return available
}
