package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/leaderboard/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// openDB opens and pings a database. An empty SQLite connection string falls
// back to defaultPath.
func openDB(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = defaultPath
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		default:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// migrationConnString returns the connection string migrations run on. MySQL
// migration files hold several statements, which the driver only accepts
// with multiStatements enabled.
func migrationConnString(backend schema.DatabaseBackend, connStr string) (string, error) {
	if backend != schema.MySQLBackend {
		return connStr, nil
	}
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

// validateTableName rejects anything that is not a plain SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholders returns n comma separated bind parameters for the backend,
// numbered from start for PostgreSQL.
func placeholders(backend schema.DatabaseBackend, start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", start+i)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// formatTime converts a time.Time to the appropriate format for the backend.
// SQLite keeps timestamps as RFC 3339 text.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// sqlTime scans a timestamp written by formatTime.
type sqlTime struct {
	backend schema.DatabaseBackend
	text    string
	native  time.Time
}

func (s *sqlTime) target() any {
	if s.backend == schema.SQLiteBackend {
		return &s.text
	}
	return &s.native
}

func (s *sqlTime) value() (time.Time, error) {
	if s.backend != schema.SQLiteBackend {
		return s.native, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.text)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s.text, err)
	}
	return t, nil
}

// tableSizeBytes estimates the storage used by a table. Errors fall back to a
// rough estimate from the row count.
func tableSizeBytes(db *sql.DB, backend schema.DatabaseBackend, connStr, table string, rows int) int64 {
	estimate := int64(rows) * 1000
	var size int64
	switch backend {
	case schema.SQLiteBackend:
		// Whole file, since SQLite does not track per table sizes cheaply
		if err := db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		q := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := db.QueryRow(q, cfg.DBName, table).Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := db.QueryRow("SELECT pg_total_relation_size($1)", table).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}

// dropTables connects to a server backend and drops the given tables.
func dropTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openDB(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
