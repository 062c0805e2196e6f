// Package sqlite contains SQLite implementations of repository interfaces built on bun.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/and161185/hashpass/internal/migrate"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// DB wraps a bun handle over a migrated SQLite database.
type DB struct {
	bun *bun.DB
	log *zap.Logger
}

// Open connects to dsn, enables foreign keys and applies pending migrations.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sqlDB, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}
	// An in-memory database lives inside a single connection.
	if strings.HasPrefix(dsn, MemoryDSN) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := migrate.Up(ctx, sqlDB, migrate.SQLite); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Debug("sqlite store ready", zap.Bool("memory", strings.HasPrefix(dsn, MemoryDSN)))
	return &DB{bun: bun.NewDB(sqlDB, sqlitedialect.New()), log: log}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error { return db.bun.Close() }

// SQL exposes the database/sql handle for schema tooling.
func (db *DB) SQL() *sql.DB { return db.bun.DB }

func withForeignKeys(dsn string) string {
	const pragma = "_pragma=foreign_keys(1)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragma
	}
	return dsn + "?" + pragma
}

func constraintCode(err error) int {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

// Codes are extended result codes; the message check covers drivers that report the primary code only.
func isUniqueViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed"))
}
