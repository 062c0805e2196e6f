// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/and161185/hashpass/migrations"
)

// Dialect names a supported backend. It doubles as the migrations subdirectory.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var gooseDialects = map[Dialect]goose.Dialect{
	Postgres: goose.DialectPostgres,
	SQLite:   goose.DialectSQLite3,
}

func provider(db *sql.DB, d Dialect) (*goose.Provider, error) {
	gd, ok := gooseDialects[d]
	if !ok {
		return nil, fmt.Errorf("migrate: unsupported dialect %q", d)
	}
	sub, err := fs.Sub(migrations.FS, string(d))
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(gd, db, sub)
}

// Up runs all pending migrations for dialect d on db.
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	p, err := provider(db, d)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// Version reports the schema version currently applied to db.
func Version(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	p, err := provider(db, d)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// UpDSN opens a PostgreSQL connection through pgx's database/sql driver and runs Up.
func UpDSN(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return Up(ctx, db, Postgres)
}
