package migrate

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMemory(t)

	require.NoError(t, Up(ctx, db, SQLite))
	v, err := Version(ctx, db, SQLite)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	// idempotent
	require.NoError(t, Up(ctx, db, SQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('profiles','tags')`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestUp_UnknownDialect(t *testing.T) {
	t.Parallel()
	err := Up(context.Background(), openMemory(t), Dialect("mysql"))
	require.ErrorContains(t, err, "unsupported dialect")
}
