// ABOUTME: SQLite storage implementation for routine data
// ABOUTME: Provides local persistence using sqlx over the pure Go SQLite driver

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// SQLiteDB implements Store with a local SQLite database.
type SQLiteDB struct {
	db   *sqlx.DB
	path string
}

// Compile-time check that SQLiteDB implements Store.
var _ Store = (*SQLiteDB)(nil)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS routines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		target INTEGER NOT NULL DEFAULT 0,
		icon TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		routine_id INTEGER NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		is_done INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
	CREATE INDEX IF NOT EXISTS idx_entries_routine_id ON entries(routine_id);
	CREATE INDEX IF NOT EXISTS idx_entries_date_routine ON entries(date, routine_id);
`

const (
	routineColumns = "id, name, type, target, icon, created_at, updated_at"
	entryColumns   = "id, date, routine_id, count, is_done"
)

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	// One connection serialises every read-modify-write transaction.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	s := &SQLiteDB{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	return s, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	_, err := s.db.Exec(sqliteSchema)
	return err
}

// Path returns the database file path.
func (s *SQLiteDB) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *SQLiteDB) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return wrapErr(op, mapConstraint(err))
	}
	if err := tx.Commit(); err != nil {
		return wrapErr(op, mapConstraint(err))
	}
	return nil
}

// mapConstraint turns SQLite unique violations into ErrConstraintViolation.
func mapConstraint(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
	}
	return err
}

// nameTaken reports whether a routine other than exceptID already uses name.
func nameTaken(ctx context.Context, tx *sqlx.Tx, name string, exceptID int64) (bool, error) {
	var n int
	err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM routines WHERE name = ? AND id != ?", name, exceptID)
	return n > 0, err
}

// CreateRoutine inserts a routine and assigns its id.
func (s *SQLiteDB) CreateRoutine(ctx context.Context, r *models.Routine) (int64, error) {
	var id int64
	err := s.withTx(ctx, "create routine", func(tx *sqlx.Tx) error {
		taken, err := nameTaken(ctx, tx, r.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: routine %q already exists", ErrConstraintViolation, r.Name)
		}
		id, err = insertRoutine(ctx, tx, r)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

func insertRoutine(ctx context.Context, tx *sqlx.Tx, r *models.Routine) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO routines (name, type, target, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.Name, r.Type, r.Target, r.Icon, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateRoutine writes every field of r by id, inserting the row if it does not exist.
func (s *SQLiteDB) UpdateRoutine(ctx context.Context, r *models.Routine) error {
	return s.withTx(ctx, "update routine", func(tx *sqlx.Tx) error {
		taken, err := nameTaken(ctx, tx, r.Name, r.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: routine %q already exists", ErrConstraintViolation, r.Name)
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO routines (id, name, type, target, icon, created_at, updated_at)
			VALUES (:id, :name, :type, :target, :icon, :created_at, :updated_at)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				type = excluded.type,
				target = excluded.target,
				icon = excluded.icon,
				updated_at = excluded.updated_at`, r)
		return err
	})
}

// DeleteRoutine removes a routine and its entries in one transaction.
// Deleting an unknown id is not an error.
func (s *SQLiteDB) DeleteRoutine(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete routine", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE routine_id = ?", id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM routines WHERE id = ?", id)
		return err
	})
}

// GetAllRoutines returns all routines in ascending id order.
func (s *SQLiteDB) GetAllRoutines(ctx context.Context) ([]*models.Routine, error) {
	routines := []*models.Routine{}
	err := s.db.SelectContext(ctx, &routines, "SELECT "+routineColumns+" FROM routines ORDER BY id")
	if err != nil {
		return nil, wrapErr("get routines", err)
	}
	return routines, nil
}

// ClearRoutines removes all routines and leaves entries untouched.
func (s *SQLiteDB) ClearRoutines(ctx context.Context) error {
	return s.withTx(ctx, "clear routines", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM routines")
		return err
	})
}

// ClearAll removes all routines and entries.
func (s *SQLiteDB) ClearAll(ctx context.Context) error {
	return s.withTx(ctx, "clear all", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM entries; DELETE FROM routines;")
		return err
	})
}

// GetEntry returns the entry for (date, routineID) or ErrNotFound.
func (s *SQLiteDB) GetEntry(ctx context.Context, date string, routineID int64) (*models.Entry, error) {
	var e models.Entry
	err := s.db.GetContext(ctx, &e,
		"SELECT "+entryColumns+" FROM entries WHERE date = ? AND routine_id = ? ORDER BY id LIMIT 1",
		date, routineID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get entry", err)
	}
	return &e, nil
}

// findEntry looks up an entry inside tx, returning nil when absent.
func findEntry(ctx context.Context, tx *sqlx.Tx, date string, routineID int64) (*models.Entry, error) {
	var e models.Entry
	err := tx.GetContext(ctx, &e,
		"SELECT "+entryColumns+" FROM entries WHERE date = ? AND routine_id = ? ORDER BY id LIMIT 1",
		date, routineID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// writeEntry updates e in place if it has an id and inserts it otherwise.
func writeEntry(ctx context.Context, tx *sqlx.Tx, e *models.Entry) error {
	if e.ID != 0 {
		_, err := tx.ExecContext(ctx, "UPDATE entries SET count = ?, is_done = ? WHERE id = ?", e.Count, e.IsDone, e.ID)
		return err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO entries (date, routine_id, count, is_done) VALUES (?, ?, ?, ?)",
		e.Date, e.RoutineID, e.Count, e.IsDone,
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

// UpsertEntry merges patch into the entry for (date, routineID), creating it if needed.
func (s *SQLiteDB) UpsertEntry(ctx context.Context, date string, routineID int64, patch models.EntryPatch) (*models.Entry, error) {
	var out *models.Entry
	err := s.withTx(ctx, "upsert entry", func(tx *sqlx.Tx) error {
		e, err := findEntry(ctx, tx, date, routineID)
		if err != nil {
			return err
		}
		if e == nil {
			e = &models.Entry{Date: date, RoutineID: routineID}
		}
		patch.Apply(e)
		if err := writeEntry(ctx, tx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustCount adds delta to the entry count inside one transaction, never going below zero.
func (s *SQLiteDB) AdjustCount(ctx context.Context, date string, routineID int64, delta int) (*models.Entry, error) {
	var out *models.Entry
	err := s.withTx(ctx, "adjust count", func(tx *sqlx.Tx) error {
		e, err := findEntry(ctx, tx, date, routineID)
		if err != nil {
			return err
		}
		if e == nil {
			e = &models.Entry{Date: date, RoutineID: routineID}
		}
		e.Count = models.AddCount(e.Count, delta)
		if err := writeEntry(ctx, tx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAllEntries returns every entry in ascending id order.
func (s *SQLiteDB) GetAllEntries(ctx context.Context) ([]*models.Entry, error) {
	entries := []*models.Entry{}
	if err := s.db.SelectContext(ctx, &entries, "SELECT "+entryColumns+" FROM entries ORDER BY id"); err != nil {
		return nil, wrapErr("get entries", err)
	}
	return entries, nil
}

// GetEntriesInRange returns entries dated from..to inclusive, ordered by date then routine.
func (s *SQLiteDB) GetEntriesInRange(ctx context.Context, from, to string) ([]*models.Entry, error) {
	entries := []*models.Entry{}
	err := s.db.SelectContext(ctx, &entries,
		"SELECT "+entryColumns+" FROM entries WHERE date >= ? AND date <= ? ORDER BY date, routine_id, id",
		from, to,
	)
	if err != nil {
		return nil, wrapErr("get entries in range", err)
	}
	return entries, nil
}

// ReplaceAll clears the database and loads routines and entries in one transaction.
// Routines receive fresh ids; entries are re-keyed through the resulting id map.
func (s *SQLiteDB) ReplaceAll(ctx context.Context, routines []*models.Routine, entries []*models.Entry) (*RestoreResult, error) {
	var result *RestoreResult
	err := s.withTx(ctx, "replace all", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries; DELETE FROM routines;"); err != nil {
			return err
		}

		result = &RestoreResult{IDMap: make(map[int64]int64, len(routines))}
		for _, r := range sortedRoutines(routines) {
			taken, err := nameTaken(ctx, tx, r.Name, 0)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: duplicate routine name %q", ErrConstraintViolation, r.Name)
			}
			nr := restoredRoutine(r)
			id, err := insertRoutine(ctx, tx, nr)
			if err != nil {
				return err
			}
			result.IDMap[r.ID] = id
			result.Routines++
		}

		for _, e := range entries {
			newID, ok := result.IDMap[e.RoutineID]
			if !ok {
				result.Skipped++
				continue
			}
			existing, err := findEntry(ctx, tx, e.Date, newID)
			if err != nil {
				return err
			}
			if existing == nil {
				existing = &models.Entry{Date: e.Date, RoutineID: newID}
				result.Entries++
			}
			existing.Count = e.Count
			existing.IsDone = e.IsDone
			if err := writeEntry(ctx, tx, existing); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sortedRoutines orders routines by their incoming id so re-keying is deterministic.
func sortedRoutines(routines []*models.Routine) []*models.Routine {
	out := make([]*models.Routine, len(routines))
	copy(out, routines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// restoredRoutine copies r for insertion, filling missing timestamps.
func restoredRoutine(r *models.Routine) *models.Routine {
	nr := *r
	now := time.Now().UTC()
	if nr.CreatedAt.IsZero() {
		nr.CreatedAt = now
	}
	if nr.UpdatedAt.IsZero() {
		nr.UpdatedAt = nr.CreatedAt
	}
	return &nr
}
