// Package storage opens the configured local key-value backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophtrip/internal/client/migrations"
	"github.com/dmitrijs2005/gophtrip/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtrip/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitSQLite opens the SQLite file at dsn and migrates it.
func InitSQLite(ctx context.Context, dsn string) (*kv.SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return kv.NewSQLiteRepository(db), nil
}

// Open returns the key-value repository for backend at path. For SQLite
// path is the database file, for Badger the data directory.
func Open(ctx context.Context, backend, path string) (kv.Repository, error) {
	switch backend {
	case BackendSQLite, "":
		if path != ":memory:" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
		return InitSQLite(ctx, path)
	case BackendBadger:
		return kv.OpenBadger(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
