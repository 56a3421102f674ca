// Package database applies the schema migrations the bot needs before
// serving webhooks.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migrator executes plain .up.sql files in lexical order, one
// transaction per file. The schema is idempotent (CREATE IF NOT
// EXISTS), so there is no version bookkeeping table.
type Migrator struct {
	db  *sql.DB
	log *slog.Logger
}

func NewMigrator(db *sql.DB, log *slog.Logger) *Migrator {
	if log == nil {
		log = slog.Default()
	}

	return &Migrator{db: db, log: log}
}

// ApplyDir finds every *.up.sql under dir and executes them in order.
func (m *Migrator) ApplyDir(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("scan migrations dir %q: %w", dir, err)
	}

	if len(files) == 0 {
		m.log.Warn("no migrations found", slog.String("dir", dir))
		return nil
	}

	sort.Strings(files)

	for _, path := range files {
		if err := m.apply(ctx, path); err != nil {
			return err
		}

		m.log.Info("migration applied", slog.String("file", filepath.Base(path)))
	}

	return nil
}

func (m *Migrator) apply(ctx context.Context, path string) error {
	// #nosec G304: migration paths come from the deployment layout
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", path, err)
	}

	statement := strings.TrimSpace(string(data))
	if statement == "" {
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %q: %w", path, err)
	}

	if _, err := tx.ExecContext(ctx, statement); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			m.log.Error("migration rollback failed", slog.Any("error", rbErr))
		}

		return fmt.Errorf("execute migration %q: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", path, err)
	}

	return nil
}
