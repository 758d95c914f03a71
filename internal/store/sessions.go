package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"

	"datepick/internal/model"
	"datepick/internal/picker"
)

// Session is a named, persisted picker: its options plus its mutable state.
type Session struct {
	Name      string       `json:"name"`
	Pattern   string       `json:"pattern"`
	From      string       `json:"from,omitempty"`
	To        string       `json:"to,omitempty"`
	Weeks     int          `json:"weeks,omitempty"`
	State     picker.State `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Options returns the picker options the session was created with. The
// caller restores State on the resulting picker.
func (s Session) Options(now func() time.Time) picker.Options {
	return picker.Options{Pattern: s.Pattern, From: s.From, To: s.To, WeeksToShow: s.Weeks, Now: now}
}

// HistoryEntry is one recorded selection.
type HistoryEntry struct {
	ID        int64              `json:"id"`
	Session   string             `json:"session"`
	Date      model.CalendarDate `json:"date"`
	Formatted string             `json:"formatted"`
	CreatedAt time.Time          `json:"createdAt"`
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("session name is empty")
	}
	return name, nil
}

// SaveSession inserts or updates sess. CreatedAt is kept from the first save.
func (s Store) SaveSession(ctx context.Context, sess Session) error {
	name, err := normalizeName(sess.Name)
	if err != nil {
		return err
	}
	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now().UTC().UnixMilli()
	st := sess.State
	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions(name, pattern, from_text, to_text, weeks,
			cursor_year, cursor_month, selected_year, selected_month, selected_day,
			visible_year, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			pattern = excluded.pattern,
			from_text = excluded.from_text,
			to_text = excluded.to_text,
			weeks = excluded.weeks,
			cursor_year = excluded.cursor_year,
			cursor_month = excluded.cursor_month,
			selected_year = excluded.selected_year,
			selected_month = excluded.selected_month,
			selected_day = excluded.selected_day,
			visible_year = excluded.visible_year,
			updated_at = excluded.updated_at`,
		name, sess.Pattern, sess.From, sess.To, sess.Weeks,
		st.Cursor.Year, st.Cursor.Month, st.Selected.Year, st.Selected.Month, st.Selected.Day,
		st.VisibleYear, now, now)
	if err != nil {
		return fmt.Errorf("save session %q: %w", name, err)
	}
	ctxlog.Logger(ctx).Debug("saved session", "name", name, "cursor", st.Cursor, "selected", st.Selected.ISO())
	return nil
}

const sessionColumns = `name, pattern, from_text, to_text, weeks,
	cursor_year, cursor_month, selected_year, selected_month, selected_day,
	visible_year, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var sess Session
	var created, updated int64
	st := &sess.State
	err := r.Scan(&sess.Name, &sess.Pattern, &sess.From, &sess.To, &sess.Weeks,
		&st.Cursor.Year, &st.Cursor.Month, &st.Selected.Year, &st.Selected.Month, &st.Selected.Day,
		&st.VisibleYear, &created, &updated)
	if err != nil {
		return Session{}, err
	}
	sess.CreatedAt = time.UnixMilli(created).UTC()
	sess.UpdatedAt = time.UnixMilli(updated).UTC()
	return sess, nil
}

func (s Store) LoadSession(ctx context.Context, name string) (Session, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Session{}, err
	}
	db, err := s.openDB(ctx)
	if err != nil {
		return Session{}, err
	}
	defer db.Close()

	sess, err := loadSession(ctx, db, name)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return Session{}, fmt.Errorf("load session %q: %w", name, err)
	}
	return sess, err
}

// ListSessions returns every session ordered by name.
func (s Store) ListSessions(ctx context.Context) ([]Session, error) {
	db, err := s.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and its history.
func (s Store) DeleteSession(ctx context.Context, name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Pragmas are per connection, so the cascade is not relied upon.
	if _, err := tx.ExecContext(ctx, `DELETE FROM selections WHERE session = ?`, name); err != nil {
		return fmt.Errorf("delete history of %q: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete session %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ctxlog.Logger(ctx).Debug("deleted session", "name", name)
	return nil
}

// AppendSelection records sel in the history of session name.
func (s Store) AppendSelection(ctx context.Context, name string, sel model.Selection) (HistoryEntry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return HistoryEntry{}, err
	}
	db, err := s.openDB(ctx)
	if err != nil {
		return HistoryEntry{}, err
	}
	defer db.Close()

	if _, err := loadSession(ctx, db, name); err != nil {
		return HistoryEntry{}, err
	}
	now := time.Now().UTC()
	d := sel.Date
	res, err := db.ExecContext(ctx, `INSERT INTO selections(session, date, year, month, day, formatted, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		name, d.ISO(), d.Year, d.Month, d.Day, sel.Formatted, now.UnixMilli())
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("append selection to %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{
		ID:        id,
		Session:   name,
		Date:      sel.Date,
		Formatted: sel.Formatted,
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

func loadSession(ctx context.Context, db *sql.DB, name string) (Session, error) {
	row := db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE name = ?`, name)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	return sess, err
}

// Selections returns up to limit history entries of session name, newest
// first. A non-positive limit returns all of them.
func (s Store) Selections(ctx context.Context, name string, limit int) ([]HistoryEntry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	db, err := s.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := loadSession(ctx, db, name); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `SELECT id, session, year, month, day, formatted, created_at
		FROM selections WHERE session = ? ORDER BY id DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var (
			e       HistoryEntry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &e.Date.Year, &e.Date.Month, &e.Date.Day, &e.Formatted, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
