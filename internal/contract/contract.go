// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/leaderboard/schema"
	"golang.org/x/text/language"
)

// DataSource loads the tables of one board.
// Implementations may read from disk or over HTTP; the core only sees the result.
type DataSource interface {
	// Load returns all tables or a single error describing why they are unavailable.
	Load(ctx context.Context) (*schema.RawTables, error)

	// Location returns a human-readable description of where data comes from.
	Location() string
}

// Labeler resolves display names of features for the active language.
type Labeler interface {
	FeatureName(feature string) string
	Language() language.Tag
}

// CacheManager defines the interface for managing stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetSourceStore() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore records rendered boards. Snapshots are history only; they are
// never loaded back into a session.
type SnapshotStore interface {
	// RecordSnapshot stores a board header and its cards and returns the snapshot ID.
	RecordSnapshot(run schema.SnapshotRun, cards []schema.Card) (int64, error)

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.SnapshotStatus, error)

	// GetAllSnapshotRuns returns every recorded board header.
	GetAllSnapshotRuns() ([]schema.SnapshotRunRecord, error)

	// GetAllCardScores returns every recorded card row.
	GetAllCardScores() ([]schema.CardScoreRecord, error)

	// Close closes the underlying connection.
	Close() error
}
