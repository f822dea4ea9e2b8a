package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

// Table names for board snapshots.
const (
	snapshotRunsTable = "leaderboard_snapshot_runs"
	cardScoresTable   = "leaderboard_card_scores"
)

// SnapshotTables lists the snapshot tables in creation order.
var SnapshotTables = []string{snapshotRunsTable, cardScoresTable}

// SnapshotStoreImpl implements the SnapshotStore interface.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the snapshot store and creates its tables.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (*SnapshotStoreImpl, error) {
	store := &SnapshotStoreImpl{backend: backend, connStr: connStr}
	if backend == schema.NoneBackend {
		return store, nil
	}

	db, err := openDB(backend, connStr, contract.GetSnapshotDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	for i, query := range snapshotTableQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", SnapshotTables[i], err)
		}
	}
	store.db = db
	return store, nil
}

// snapshotTableQueries returns the CREATE TABLE queries for the backend,
// matching the first migration.
func snapshotTableQueries(backend schema.DatabaseBackend) []string {
	runs := quoteTableName(snapshotRunsTable, backend)
	cards := quoteTableName(cardScoresTable, backend)

	var id, ts, text, short, float string
	switch backend {
	case schema.MySQLBackend:
		id, ts, text, short, float = "BIGINT AUTO_INCREMENT PRIMARY KEY", "DATETIME(6)", "TEXT", "VARCHAR(255)", "DOUBLE"
	case schema.PostgreSQLBackend:
		id, ts, text, short, float = "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ", "TEXT", "TEXT", "DOUBLE PRECISION"
	default:
		id, ts, text, short, float = "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT", "TEXT", "TEXT", "REAL"
	}

	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id %s,
				session_id %s NOT NULL,
				recorded_at %s NOT NULL,
				scope %s NOT NULL,
				selection %s,
				mode %s NOT NULL,
				sort_order %s NOT NULL,
				normalization %s,
				total_score %s NOT NULL,
				card_count INTEGER NOT NULL
			)`, runs, id, short, ts, short, short, short, short, text, float),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT NOT NULL,
				position INTEGER NOT NULL,
				project %s NOT NULL,
				feature %s NOT NULL,
				normalizer %s,
				raw_value %s NOT NULL,
				value %s NOT NULL,
				score %s NOT NULL,
				score_class %s NOT NULL,
				PRIMARY KEY (snapshot_id, position)
			)`, cards, short, short, short, float, float, float, short),
	}
}

// RecordSnapshot writes the board header and its cards in one transaction.
func (s *SnapshotStoreImpl) RecordSnapshot(run schema.SnapshotRun, cards []schema.Card) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	var normalization *string
	if len(run.Normalization) > 0 {
		data, err := json.Marshal(run.Normalization)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal normalization: %w", err)
		}
		text := string(data)
		normalization = &text
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	columns := "session_id, recorded_at, scope, selection, mode, sort_order, normalization, total_score, card_count"
	args := []any{
		run.SessionID, formatTime(run.RecordedAt, s.backend), string(run.Scope), nullString(run.Selection),
		string(run.Mode), string(run.Order), normalization, run.TotalScore, len(cards),
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(snapshotRunsTable, s.backend), columns, placeholders(s.backend, 1, len(args)))

	var id int64
	if s.backend == schema.PostgreSQLBackend {
		err = tx.QueryRow(query+" RETURNING snapshot_id", args...).Scan(&id)
	} else {
		var res sql.Result
		if res, err = tx.Exec(query, args...); err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot run: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (snapshot_id, position, project, feature, normalizer, raw_value, value, score, score_class) VALUES (%s)`,
		quoteTableName(cardScoresTable, s.backend), placeholders(s.backend, 1, 9)))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range cards {
		if _, err := stmt.Exec(id, i, c.Project, c.Feature, nullString(c.Normalizer), c.RawValue, c.Value, c.Score, string(c.ScoreClass)); err != nil {
			return 0, fmt.Errorf("failed to insert card %s: %w", c.CardKey, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// Close closes the underlying connection.
func (s *SnapshotStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns snapshot counts and row counts per table.
func (s *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	runs := quoteTableName(snapshotRunsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		last := sqlTime{backend: s.backend}
		query := fmt.Sprintf("SELECT snapshot_id, recorded_at FROM %s ORDER BY snapshot_id DESC LIMIT 1", runs)
		if err := s.db.QueryRow(query).Scan(&status.LastSnapshotID, last.target()); err != nil {
			return status, fmt.Errorf("failed to get last snapshot: %w", err)
		}
		var err error
		if status.LastSnapshotTime, err = last.value(); err != nil {
			return status, err
		}

		oldest := sqlTime{backend: s.backend}
		query = fmt.Sprintf("SELECT recorded_at FROM %s ORDER BY snapshot_id ASC LIMIT 1", runs)
		if err := s.db.QueryRow(query).Scan(oldest.target()); err != nil {
			return status, fmt.Errorf("failed to get oldest snapshot: %w", err)
		}
		if status.OldestTime, err = oldest.value(); err != nil {
			return status, err
		}
	}

	for _, table := range SnapshotTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalCards = int(status.TableSizes[cardScoresTable])
	return status, nil
}

// GetAllSnapshotRuns returns every board header ordered by ID.
func (s *SnapshotStoreImpl) GetAllSnapshotRuns() ([]schema.SnapshotRunRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT snapshot_id, session_id, recorded_at, scope, selection, mode, sort_order, normalization, total_score, card_count
		FROM %s ORDER BY snapshot_id`, quoteTableName(snapshotRunsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SnapshotRunRecord
	for rows.Next() {
		var r schema.SnapshotRunRecord
		recorded := sqlTime{backend: s.backend}
		if err := rows.Scan(&r.SnapshotID, &r.SessionID, recorded.target(), &r.Scope, &r.Selection,
			&r.Mode, &r.SortOrder, &r.Normalization, &r.TotalScore, &r.CardCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot run: %w", err)
		}
		if r.RecordedAt, err = recorded.value(); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot runs: %w", err)
	}
	return results, nil
}

// GetAllCardScores returns every card row ordered by snapshot and position.
func (s *SnapshotStoreImpl) GetAllCardScores() ([]schema.CardScoreRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT snapshot_id, position, project, feature, normalizer, raw_value, value, score, score_class
		FROM %s ORDER BY snapshot_id, position`, quoteTableName(cardScoresTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query card scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CardScoreRecord
	for rows.Next() {
		var r schema.CardScoreRecord
		if err := rows.Scan(&r.SnapshotID, &r.Position, &r.Project, &r.Feature, &r.Normalizer,
			&r.RawValue, &r.Value, &r.Score, &r.ScoreClass); err != nil {
			return nil, fmt.Errorf("failed to scan card score: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card scores: %w", err)
	}
	return results, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
