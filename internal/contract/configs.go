package contract

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/leaderboard/schema"
	"golang.org/x/text/language"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	DefaultColumns   = 4
	DefaultLanguage  = "en"
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 24 * time.Hour
	MaxColumns       = 12
)

// Errors returned by config validation.
var (
	ErrConflictingScope = errors.New("only one of --project, --feature or --all may be given")
	ErrMissingSource    = errors.New("a data directory or URL is required")
)

// DropStep is one scripted drop: Dragged is released over Target, or over
// empty space when Target is nil.
type DropStep struct {
	Dragged schema.CardKey
	Target  *schema.CardKey
}

// String returns the script form "feature@project>feature@project".
func (d DropStep) String() string {
	if d.Target == nil {
		return d.Dragged.String() + ">"
	}
	return d.Dragged.String() + ">" + d.Target.String()
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a board.
// This struct remains the "final, validated" config.
type Config struct {
	DataSource string // directory or http(s) base URL
	Timeout    time.Duration

	Scope     schema.Scope
	Selection string // project or feature name, empty for all
	Mode      schema.ScoringMode
	Order     schema.SortOrder

	// NormalizeOverrides replace baseline divisors before the session starts.
	// An empty value removes the baseline divisor.
	NormalizeOverrides map[string]string

	// Drops are replayed in order against the session.
	Drops []DropStep

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Columns    int // Grid columns used for card slots
	Language   language.Tag

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in progress messages
	UseColors bool // Enable colored score classes in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Width             int    `mapstructure:"width"`
	Lang              string `mapstructure:"lang"`
	Timeout           string `mapstructure:"timeout"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`
	Mode              string `mapstructure:"mode"`
	Normalize         string `mapstructure:"normalize"`

	// --- Fields from boardCmd.Flags() ---
	Project string `mapstructure:"project"`
	Feature string `mapstructure:"feature"`
	All     bool   `mapstructure:"all"`
	Order   string `mapstructure:"order"`
	Drop    string `mapstructure:"drop"`
	Columns int    `mapstructure:"columns"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.NormalizeOverrides != nil {
		clone.NormalizeOverrides = maps.Clone(c.NormalizeOverrides)
	}
	if c.Drops != nil {
		clone.Drops = slices.Clone(c.Drops)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := processScript(cfg, input); err != nil {
		return err
	}
	if err := resolveDataSource(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host and port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return err
	}

	// Cache and snapshots must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SnapshotBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		snapshotPath := cfg.SnapshotDBConnect
		if snapshotPath == "" {
			snapshotPath = GetSnapshotDBFilePath()
		}
		if cachePath == snapshotPath {
			return fmt.Errorf("cache and snapshot storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-selection fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Mode Validation ---
	cfg.Mode = schema.ScoringMode(strings.ToLower(input.Mode))
	if _, ok := schema.ValidScoringModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be lead, mean, rank", input.Mode)
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("precision must be between 0 and 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	// --- 3. Language ---
	lang := input.Lang
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language '%s': %w", input.Lang, err)
	}
	cfg.Language = tag

	// --- 4. Durations ---
	cfg.Timeout, err = parseDurationOr(input.Timeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout value: %w", err)
	}
	cfg.CacheTTL, err = parseDurationOr(input.CacheTTL, DefaultCacheTTL)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processSelection handles the mutually exclusive scope flags, sort order and grid.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	project := strings.TrimSpace(input.Project)
	feature := strings.TrimSpace(input.Feature)

	given := 0
	for _, set := range []bool{project != "", feature != "", input.All} {
		if set {
			given++
		}
	}
	if given > 1 {
		return ErrConflictingScope
	}

	switch {
	case input.All:
		cfg.Scope = schema.AllScope
		cfg.Selection = ""
	case feature != "":
		cfg.Scope = schema.FeatureScope
		cfg.Selection = feature
	default:
		cfg.Scope = schema.ProjectScope
		cfg.Selection = project // empty means the first project
	}

	order := strings.ToLower(strings.TrimSpace(input.Order))
	if order == "" {
		order = string(schema.DefaultOrder)
	}
	cfg.Order = schema.SortOrder(order)
	if _, ok := schema.ValidSortOrders[cfg.Order]; !ok {
		return fmt.Errorf("invalid sort order '%s'. must be project, feature, group, score, default", input.Order)
	}

	cfg.Columns = input.Columns
	if cfg.Columns == 0 {
		cfg.Columns = DefaultColumns
	}
	if cfg.Columns < 1 || cfg.Columns > MaxColumns {
		return fmt.Errorf("columns must be between 1 and %d (received %d)", MaxColumns, input.Columns)
	}
	return nil
}

// processScript parses normalization overrides and scripted drops.
func processScript(cfg *Config, input *ConfigRawInput) error {
	overrides, err := ParseNormalizeOverrides(input.Normalize)
	if err != nil {
		return err
	}
	cfg.NormalizeOverrides = overrides

	drops, err := ParseDropScript(input.Drop)
	if err != nil {
		return err
	}
	cfg.Drops = drops
	return nil
}

// resolveDataSource checks the positional data argument.
func resolveDataSource(cfg *Config, input *ConfigRawInput) error {
	src := strings.TrimSpace(input.DataPathStr)
	if src == "" {
		return ErrMissingSource
	}
	if IsRemoteSource(src) {
		cfg.DataSource = strings.TrimRight(src, "/")
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("data directory %q is not accessible: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", src)
	}
	cfg.DataSource = src
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	profilePrefix = strings.TrimSpace(profilePrefix)
	profile.Enabled = profilePrefix != ""
	profile.Prefix = profilePrefix
}

// IsRemoteSource reports whether the data source is an http(s) base URL.
func IsRemoteSource(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// ParseNormalizeOverrides parses "target=divisor" pairs separated by commas.
// "target=" removes the baseline divisor of target.
func ParseNormalizeOverrides(s string) (map[string]string, error) {
	out := make(map[string]string)
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		target, divisor, ok := strings.Cut(part, "=")
		target, divisor = strings.TrimSpace(target), strings.TrimSpace(divisor)
		if !ok || target == "" {
			return nil, fmt.Errorf("invalid normalize entry %q. expected target=divisor", part)
		}
		if target == divisor {
			return nil, fmt.Errorf("feature %q cannot be normalized by itself", target)
		}
		out[target] = divisor
	}
	return out, nil
}

// ParseDropScript parses drops separated by semicolons, each written as
// "feature@project>feature@project". An empty right side drops over nothing.
func ParseDropScript(s string) ([]DropStep, error) {
	var steps []DropStep
	for part := range strings.SplitSeq(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, ok := strings.Cut(part, ">")
		if !ok {
			return nil, fmt.Errorf("invalid drop %q. expected dragged>target", part)
		}
		dragged, err := schema.ParseCardKey(from)
		if err != nil {
			return nil, err
		}
		step := DropStep{Dragged: dragged}
		if strings.TrimSpace(to) != "" {
			target, err := schema.ParseCardKey(to)
			if err != nil {
				return nil, err
			}
			step.Target = &target
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseDurationOr(s string, fallback time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative (received %s)", s)
	}
	return d, nil
}
