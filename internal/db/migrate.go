package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/matchday/internal/db/migrations"
)

// goose dialect names.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// goose keeps the base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies the embedded migrations to db.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// RunMigrations runs goose migrations on the given PostgreSQL DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return Migrate(ctx, sqlDB, DialectPostgres)
}

// Open returns the repository for driver ("sqlite" or "postgres"), with
// migrations applied. target is the file path or the DSN.
func Open(ctx context.Context, driver, target string) (Repository, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(ctx, target)
	case "postgres":
		if err := RunMigrations(ctx, target); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, target)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
