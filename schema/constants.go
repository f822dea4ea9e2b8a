package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ScoringMode represents how a card's score is computed.
	ScoringMode string

	// SortOrder represents how the visible cards are ordered.
	SortOrder string

	// ScoreClass represents the color band of a score.
	ScoreClass string

	// Scope represents which cards the board shows.
	Scope string

	// DropKind represents the outcome of a completed drag gesture.
	DropKind string

	// DatabaseBackend represents the database backend for caching and snapshots.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All scoring modes supported.
const (
	LeadMode ScoringMode = "lead" // default
	MeanMode ScoringMode = "mean"
	RankMode ScoringMode = "rank"
)

// All sort orders supported.
const (
	ProjectOrder SortOrder = "project"
	FeatureOrder SortOrder = "feature"
	GroupOrder   SortOrder = "group"
	ScoreOrder   SortOrder = "score"
	DefaultOrder SortOrder = "default" // default
)

// All score classes.
const (
	GreenClass  ScoreClass = "green"
	YellowClass ScoreClass = "yellow"
	RedClass    ScoreClass = "red"
)

// All selection scopes.
const (
	ProjectScope Scope = "project" // default
	FeatureScope Scope = "feature"
	AllScope     Scope = "all"
)

// All drop outcomes.
const (
	DropNone      DropKind = "none"
	DropNormalize DropKind = "normalize"
	DropSwap      DropKind = "swap"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllScoringModes returns a list of all supported scoring modes.
var AllScoringModes = []ScoringMode{LeadMode, MeanMode, RankMode}

// AllSortOrders returns a list of all supported sort orders.
var AllSortOrders = []SortOrder{ProjectOrder, FeatureOrder, GroupOrder, ScoreOrder, DefaultOrder}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidScoringModes lists all valid scoring modes.
var ValidScoringModes = map[ScoringMode]struct{}{
	LeadMode: {},
	MeanMode: {},
	RankMode: {},
}

// ValidSortOrders lists all valid sort orders.
var ValidSortOrders = map[SortOrder]struct{}{
	ProjectOrder: {},
	FeatureOrder: {},
	GroupOrder:   {},
	ScoreOrder:   {},
	DefaultOrder: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ScoringModeStrings returns the scoring modes as plain strings.
func ScoringModeStrings() []string {
	out := make([]string, 0, len(AllScoringModes))
	for _, m := range AllScoringModes {
		out = append(out, string(m))
	}
	return out
}

// SortOrderStrings returns the sort orders as plain strings.
func SortOrderStrings() []string {
	out := make([]string, 0, len(AllSortOrders))
	for _, o := range AllSortOrders {
		out = append(out, string(o))
	}
	return out
}
