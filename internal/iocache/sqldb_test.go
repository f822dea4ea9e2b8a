package iocache

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "source_cache", false},
		{"leading underscore", "_t1", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"space", "my table", true},
		{"injection", "t; DROP TABLE x", true},
		{"quote", `t"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 1, 3))
	assert.Equal(t, "?", placeholders(schema.MySQLBackend, 4, 1))
	assert.Equal(t, "$1, $2", placeholders(schema.PostgreSQLBackend, 1, 2))
	assert.Equal(t, "$3", placeholders(schema.PostgreSQLBackend, 3, 1))
	assert.Empty(t, placeholders(schema.SQLiteBackend, 1, 0))
}

func TestDriverName(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverName(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := driverName(schema.NoneBackend)
	assert.Error(t, err)
}

func TestSQLTime(t *testing.T) {
	now := time.Date(2026, 5, 4, 3, 2, 1, 987654321, time.UTC)

	lite := sqlTime{backend: schema.SQLiteBackend, text: formatTime(now, schema.SQLiteBackend).(string)}
	got, err := lite.value()
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	native := sqlTime{backend: schema.PostgreSQLBackend, native: formatTime(now, schema.PostgreSQLBackend).(time.Time)}
	got, err = native.value()
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	bad := sqlTime{backend: schema.SQLiteBackend, text: "yesterday"}
	_, err = bad.value()
	assert.Error(t, err)
}

func TestMigrationConnString(t *testing.T) {
	t.Run("mysql enables multi statements", func(t *testing.T) {
		dsn, err := migrationConnString(schema.MySQLBackend, "root:secret@tcp(localhost:3306)/board?parseTime=true")
		require.NoError(t, err)

		cfg, err := mysql.ParseDSN(dsn)
		require.NoError(t, err)
		assert.True(t, cfg.MultiStatements)
		assert.True(t, cfg.ParseTime)
		assert.Equal(t, "root", cfg.User)
		assert.Equal(t, "localhost:3306", cfg.Addr)
		assert.Equal(t, "board", cfg.DBName)
	})

	t.Run("mysql invalid", func(t *testing.T) {
		_, err := migrationConnString(schema.MySQLBackend, "root@tcp(localhost:3306")
		assert.Error(t, err)
	})

	t.Run("other backends unchanged", func(t *testing.T) {
		for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.PostgreSQLBackend} {
			dsn, err := migrationConnString(backend, "host=localhost port=5432")
			require.NoError(t, err)
			assert.Equal(t, "host=localhost port=5432", dsn)
		}
	})
}
