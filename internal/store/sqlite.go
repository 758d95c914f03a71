package store

import (
	"context"
	"database/sql"
	"fmt"

	"cloudeng.io/logging/ctxlog"

	_ "modernc.org/sqlite"
)

const schemaVersion = "2"

func (s Store) openDB(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", s.dbPath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI read while a CLI process writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", s.dbPath(), err)
	}
	ctxlog.Logger(ctx).Debug("opened session db", "path", s.dbPath())
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			name TEXT PRIMARY KEY,
			pattern TEXT NOT NULL,
			from_text TEXT NOT NULL DEFAULT '',
			to_text TEXT NOT NULL DEFAULT '',
			weeks INTEGER NOT NULL DEFAULT 0,
			cursor_year INTEGER NOT NULL,
			cursor_month INTEGER NOT NULL,
			selected_year INTEGER NOT NULL DEFAULT 0,
			selected_month INTEGER NOT NULL DEFAULT 0,
			selected_day INTEGER NOT NULL DEFAULT 0,
			visible_year INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS selections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL REFERENCES sessions(name) ON DELETE CASCADE,
			date TEXT NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			month INTEGER NOT NULL DEFAULT 0,
			day INTEGER NOT NULL DEFAULT 0,
			formatted TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS selections_by_session ON selections(session, id);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '` + schemaVersion + `');`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return migrateSelectionParts(ctx, db)
}

// migrateSelectionParts upgrades version 1 databases, whose selections only
// carried an ISO date, to the integer year/month/day columns.
func migrateSelectionParts(ctx context.Context, db *sql.DB) error {
	var version string
	if err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&version); err != nil {
		return err
	}
	if version != "1" {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmts := []string{
		`ALTER TABLE selections ADD COLUMN year INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE selections ADD COLUMN month INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE selections ADD COLUMN day INTEGER NOT NULL DEFAULT 0;`,
		// Version 1 could only write years 0-9999 it could read back.
		`UPDATE selections SET
			year = CAST(substr(date, 1, 4) AS INTEGER),
			month = CAST(substr(date, 6, 2) AS INTEGER) - 1,
			day = CAST(substr(date, 9, 2) AS INTEGER)
		WHERE length(date) = 10;`,
		`UPDATE meta SET v = '` + schemaVersion + `' WHERE k = 'schema_version';`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema 1 -> %s: %w", schemaVersion, err)
		}
	}
	return tx.Commit()
}
