package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/leaderboard/schema"
)

// Color variables for console output.
var (
	GreenColor  = color.New(color.FgGreen, color.Bold) // GreenColor marks a leading score.
	YellowColor = color.New(color.FgYellow)            // YellowColor marks an average score.
	RedColor    = color.New(color.FgRed, color.Bold)   // RedColor marks a trailing score.
)

// GetPlainLabel returns the plain class name of a score class.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(class schema.ScoreClass) string {
	switch class {
	case schema.GreenClass:
		return "Green"
	case schema.YellowClass:
		return "Yellow"
	default:
		return "Red"
	}
}

// GetColorLabel colors text by score class for console output (table).
func GetColorLabel(class schema.ScoreClass, text string) string {
	switch class {
	case schema.GreenClass:
		return GreenColor.Sprint(text)
	case schema.YellowClass:
		return YellowColor.Sprint(text)
	default:
		return RedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is set.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo prints a progress message to stderr, with an emoji prefix when enabled.
func LogInfo(cfg *Config, emoji, msg string) {
	if cfg != nil && cfg.UseEmojis {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", emoji, msg)
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the source cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leaderboard_cache.db"
	}
	return filepath.Join(homeDir, ".leaderboard_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leaderboard_snapshots.db"
	}
	return filepath.Join(homeDir, ".leaderboard_snapshots.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
