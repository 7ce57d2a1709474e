// Package storage persists aggregate tables into the shared SQLite
// database downstream analysis reads from.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	apperrors "github.com/samborg-dev/darts-fair-workflows/internal/errors"
	"github.com/samborg-dev/darts-fair-workflows/internal/table"
)

// DB is a handle on the result database.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the SQLite database at path, creating the file and its
// parent directories as needed.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewStorageError(
				fmt.Sprintf("failed to create database directory for %s", path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to open sqlite database %s", path), err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to set WAL mode on %s", path), err)
	}

	return &DB{db: db, logger: logger}, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveTable drops and recreates the named database table from the
// given aggregate, then inserts every row in a single transaction.
// Text cells become TEXT columns, byte buffers BLOB columns, missing
// cells NULL. A table with no columns has nothing to persist and is
// skipped.
func (d *DB) SaveTable(ctx context.Context, name string, t *table.Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		d.logger.WarnContext(ctx, "skipping empty table", slog.String("table", name))
		return nil
	}

	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
		defs[i] = fmt.Sprintf("%s %s", quoted[i], columnType(t, col))
		placeholders[i] = "?"
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(name))); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to drop table %s", name), err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create table %s", name), err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to prepare insert for %s", name), err)
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		args := make([]any, len(cols))
		for j, col := range cols {
			cell, ok := t.Cell(i, col)
			switch {
			case !ok:
				args[j] = nil
			case cell.IsBlob():
				args[j] = cell.Blob
			default:
				args[j] = cell.Text
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.NewStorageError(
				fmt.Sprintf("failed to insert row %d into %s", i, name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to commit table %s", name), err)
	}

	d.logger.InfoContext(ctx, "table saved to database",
		slog.String("table", name),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(cols)))
	return nil
}

// quoteIdent quotes an identifier. EXIF tag names carry spaces and
// arbitrary punctuation, so every identifier goes through here.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnType picks BLOB when any present cell in the column holds a
// byte buffer, TEXT otherwise.
func columnType(t *table.Table, col string) string {
	for i := 0; i < t.Len(); i++ {
		if cell, ok := t.Cell(i, col); ok && cell.IsBlob() {
			return "BLOB"
		}
	}
	return "TEXT"
}
