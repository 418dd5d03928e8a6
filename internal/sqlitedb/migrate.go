package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const migrationsTable = "schema_migrations"

// Migrator applies the .sql files at the root of an fs.FS in name order. Each
// file runs in its own transaction together with its bookkeeping row, so a
// failed file leaves no trace and is retried on the next run.
type Migrator struct {
	db     *sql.DB
	files  fs.FS
	logger zerolog.Logger
}

type MigratorOption func(*Migrator)

func WithLogger(logger zerolog.Logger) MigratorOption {
	return func(m *Migrator) {
		m.logger = logger
	}
}

func NewMigrator(db *sql.DB, files fs.FS, options ...MigratorOption) *Migrator {
	m := &Migrator{db: db, files: files, logger: log.Logger}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Migrate is shorthand for NewMigrator(...).Up.
func Migrate(ctx context.Context, db *sql.DB, files fs.FS, options ...MigratorOption) error {
	_, err := NewMigrator(db, files, options...).Up(ctx)
	return err
}

// Up applies pending files and reports how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, name := range pending {
		if err := m.apply(ctx, name); err != nil {
			return i, fmt.Errorf("[Migrator Up] %s: %w", name, err)
		}
		m.logger.Debug().Str("file", name).Msg("migration applied")
	}
	if len(pending) > 0 {
		m.logger.Info().Int("count", len(pending)).Msg("database migrated")
	}
	return len(pending), nil
}

// Pending lists the files not yet recorded as applied.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("[Migrator Pending] create %s: %w", migrationsTable, err)
	}

	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("[Migrator Pending] list files: %w", err)
	}
	slices.Sort(names)

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Migrator Pending] read %s: %w", migrationsTable, err)
	}
	return slices.DeleteFunc(names, func(name string) bool { return applied[name] }), nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT filename FROM `+migrationsTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	body, err := fs.ReadFile(m.files, name)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO `+migrationsTable+` (filename) VALUES (?)`, name); err != nil {
		return err
	}
	return tx.Commit()
}
