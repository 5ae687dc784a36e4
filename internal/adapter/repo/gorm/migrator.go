package gormrepo

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the journal schema shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type migration struct {
	version string
	sql     string
}

const migrationsTable = "journal_migrations"

// ApplyMigrations runs every *.sql file in fsys not yet recorded, in file
// name order, each in its own transaction.
func ApplyMigrations(ctx context.Context, db *gorm.DB, fsys fs.FS) error {
	db = db.WithContext(ctx)
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`).Error; err != nil {
		return fmt.Errorf("create %s: %w", migrationsTable, err)
	}

	var done []string
	if err := db.Table(migrationsTable).Pluck("version", &done).Error; err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	pending, err := pendingMigrations(fsys, done)
	if err != nil {
		return err
	}
	for _, m := range pending {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.sql).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", m.version, err)
			}
			return tx.Exec(`INSERT INTO `+migrationsTable+` (version, applied_at) VALUES (?, ?)`, m.version, time.Now()).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func pendingMigrations(fsys fs.FS, applied []string) ([]migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(names)

	var out []migration
	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".sql")
		if slices.Contains(applied, version) {
			continue
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, migration{version: version, sql: string(b)})
	}
	return out, nil
}
