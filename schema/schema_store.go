package schema

import "time"

// SnapshotRun is the header of one recorded board.
type SnapshotRun struct {
	SessionID     string
	RecordedAt    time.Time
	Scope         Scope
	Selection     string
	Mode          ScoringMode
	Order         SortOrder
	Normalization map[string]string
	TotalScore    float64
}

// SnapshotRunRecord represents a row from the leaderboard_snapshot_runs table.
type SnapshotRunRecord struct {
	SnapshotID    int64
	SessionID     string
	RecordedAt    time.Time
	Scope         string
	Selection     *string
	Mode          string
	SortOrder     string
	Normalization *string
	TotalScore    float64
	CardCount     int32
}

// CardScoreRecord represents a row from the leaderboard_card_scores table.
type CardScoreRecord struct {
	SnapshotID int64
	Position   int32
	Project    string
	Feature    string
	Normalizer *string
	RawValue   float64
	Value      float64
	Score      float64
	ScoreClass string
}

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSnapshots   int              `json:"total_snapshots"`
	LastSnapshotID   int64            `json:"last_snapshot_id"`
	LastSnapshotTime time.Time        `json:"last_snapshot_time"`
	OldestTime       time.Time        `json:"oldest_snapshot_time"`
	TotalCards       int              `json:"total_cards"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
