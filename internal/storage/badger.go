// ABOUTME: Badger key-value storage implementation for routine data
// ABOUTME: Maintains name, date, and cascade indexes as keys inside badger transactions

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	badger "github.com/dgraph-io/badger/v3"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// maxConflictRetries bounds how often a transaction is replayed after badger.ErrConflict.
const maxConflictRetries = 5

const (
	prefixRoutine      = "routine:"
	prefixRoutineName  = "routine_name:"
	prefixEntry        = "entry:"
	prefixEntryKey     = "entry_key:"
	prefixEntryRoutine = "entry_routine:"

	seqRoutines = "seq:routines"
	seqEntries  = "seq:entries"
)

// BadgerStore implements Store on an embedded badger database.
type BadgerStore struct {
	db   *badger.DB
	path string
	// writeMu serialises writers the way the SQLite store's single connection does.
	writeMu sync.Mutex
}

// Compile-time check that BadgerStore implements Store.
var _ Store = (*BadgerStore)(nil)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// InMemory keeps all data in memory; path is ignored.
	InMemory bool
	// Logger receives badger's internal log output. Nil silences it.
	Logger *log.Logger
}

// NewBadgerStore opens or creates a badger database in dir.
func NewBadgerStore(dir string, opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{l: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	return &BadgerStore{db: db, path: dir}, nil
}

// Path returns the database directory.
func (s *BadgerStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's logging into the application logger.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(strings.TrimSpace(format), args...)
}

// update runs fn in a read-write transaction, replaying it when the commit conflicts.
func (s *BadgerStore) update(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return wrapErr(op, cerr)
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return wrapErr(op, err)
}

// view runs fn in a read-only transaction.
func (s *BadgerStore) view(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return wrapErr(op, err)
	}
	return wrapErr(op, s.db.View(fn))
}

func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func nameKey(name string) []byte {
	return []byte(prefixRoutineName + name)
}

func entryIndexKey(date string, routineID int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", prefixEntryKey, date, routineID))
}

func entryRoutineKey(routineID, entryID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", prefixEntryRoutine, routineID, entryID))
}

// nextID increments the named sequence inside txn.
func nextID(txn *badger.Txn, seq string) (int64, error) {
	var cur int64
	item, err := txn.Get([]byte(seq))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		v, err := item.ValueCopy(nil)
		if err != nil {
			return 0, err
		}
		if cur, err = strconv.ParseInt(string(v), 10, 64); err != nil {
			return 0, fmt.Errorf("corrupt sequence %s: %w", seq, err)
		}
	}
	cur++
	if err := txn.Set([]byte(seq), []byte(strconv.FormatInt(cur, 10))); err != nil {
		return 0, err
	}
	return cur, nil
}

// bumpSequence raises seq to at least id so explicit ids are never handed out again.
func bumpSequence(txn *badger.Txn, seq string, id int64) error {
	item, err := txn.Get([]byte(seq))
	if err == nil {
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if cur, err := strconv.ParseInt(string(v), 10, 64); err == nil && cur >= id {
			return nil
		}
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	return txn.Set([]byte(seq), []byte(strconv.FormatInt(id, 10)))
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func getIDValue(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(v), 10, 64)
}

func setIDValue(txn *badger.Txn, key []byte, id int64) error {
	return txn.Set(key, []byte(strconv.FormatInt(id, 10)))
}

// prefixKeys collects every key under prefix in ascending order.
func prefixKeys(txn *badger.Txn, prefix string) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// deletePrefix removes every key under prefix inside txn.
func deletePrefix(txn *badger.Txn, prefix string) error {
	for _, k := range prefixKeys(txn, prefix) {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func scanRoutines(txn *badger.Txn) ([]*models.Routine, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixRoutine)
	it := txn.NewIterator(opts)
	defer it.Close()

	routines := []*models.Routine{}
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		var r models.Routine
		if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
			return nil, fmt.Errorf("decode routine: %w", err)
		}
		routines = append(routines, &r)
	}
	return routines, nil
}

func scanEntries(txn *badger.Txn) ([]*models.Entry, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixEntry)
	it := txn.NewIterator(opts)
	defer it.Close()

	entries := []*models.Entry{}
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		var e models.Entry
		if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &e) }); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// putRoutine stores r and its name index, rejecting names owned by another routine.
func putRoutine(txn *badger.Txn, r *models.Routine) error {
	owner, err := getIDValue(txn, nameKey(r.Name))
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	case owner != r.ID:
		return fmt.Errorf("%w: routine %q already exists", ErrConstraintViolation, r.Name)
	}

	var old models.Routine
	err = getJSON(txn, idKey(prefixRoutine, r.ID), &old)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	default:
		if old.Name != r.Name {
			if err := txn.Delete(nameKey(old.Name)); err != nil {
				return err
			}
		}
		r.CreatedAt = old.CreatedAt
	}

	if err := setJSON(txn, idKey(prefixRoutine, r.ID), r); err != nil {
		return err
	}
	return setIDValue(txn, nameKey(r.Name), r.ID)
}

// CreateRoutine inserts a routine and assigns its id.
func (s *BadgerStore) CreateRoutine(ctx context.Context, r *models.Routine) (int64, error) {
	var id int64
	err := s.update(ctx, "create routine", func(txn *badger.Txn) error {
		if _, err := getIDValue(txn, nameKey(r.Name)); err == nil {
			return fmt.Errorf("%w: routine %q already exists", ErrConstraintViolation, r.Name)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		var err error
		if id, err = nextID(txn, seqRoutines); err != nil {
			return err
		}
		nr := *r
		nr.ID = id
		return putRoutine(txn, &nr)
	})
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// UpdateRoutine writes every field of r by id, inserting it if the id is unknown.
func (s *BadgerStore) UpdateRoutine(ctx context.Context, r *models.Routine) error {
	return s.update(ctx, "update routine", func(txn *badger.Txn) error {
		nr := *r
		if err := putRoutine(txn, &nr); err != nil {
			return err
		}
		return bumpSequence(txn, seqRoutines, r.ID)
	})
}

// DeleteRoutine removes a routine and every entry referencing it in one transaction.
func (s *BadgerStore) DeleteRoutine(ctx context.Context, id int64) error {
	return s.update(ctx, "delete routine", func(txn *badger.Txn) error {
		var r models.Routine
		err := getJSON(txn, idKey(prefixRoutine, id), &r)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err == nil {
			if err := txn.Delete(nameKey(r.Name)); err != nil {
				return err
			}
			if err := txn.Delete(idKey(prefixRoutine, id)); err != nil {
				return err
			}
		}
		return deleteRoutineEntries(txn, id)
	})
}

// deleteRoutineEntries removes entries for routineID through the cascade index.
func deleteRoutineEntries(txn *badger.Txn, routineID int64) error {
	prefix := fmt.Sprintf("%s%020d:", prefixEntryRoutine, routineID)
	for _, k := range prefixKeys(txn, prefix) {
		entryID, err := strconv.ParseInt(strings.TrimPrefix(string(k), prefix), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt cascade key %q: %w", k, err)
		}
		var e models.Entry
		err = getJSON(txn, idKey(prefixEntry, entryID), &e)
		if err == nil {
			if err := txn.Delete(entryIndexKey(e.Date, e.RoutineID)); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := txn.Delete(idKey(prefixEntry, entryID)); err != nil {
			return err
		}
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// GetAllRoutines returns all routines in ascending id order.
func (s *BadgerStore) GetAllRoutines(ctx context.Context) ([]*models.Routine, error) {
	var routines []*models.Routine
	err := s.view(ctx, "get routines", func(txn *badger.Txn) error {
		var err error
		routines, err = scanRoutines(txn)
		return err
	})
	return routines, err
}

// ClearRoutines removes all routines and leaves entries untouched.
func (s *BadgerStore) ClearRoutines(ctx context.Context) error {
	return s.update(ctx, "clear routines", func(txn *badger.Txn) error {
		if err := deletePrefix(txn, prefixRoutine); err != nil {
			return err
		}
		return deletePrefix(txn, prefixRoutineName)
	})
}

// ClearAll removes all routines and entries. Sequences are kept so ids are never reused.
func (s *BadgerStore) ClearAll(ctx context.Context) error {
	return s.update(ctx, "clear all", clearData)
}

func clearData(txn *badger.Txn) error {
	for _, p := range []string{prefixRoutine, prefixRoutineName, prefixEntry, prefixEntryKey, prefixEntryRoutine} {
		if err := deletePrefix(txn, p); err != nil {
			return err
		}
	}
	return nil
}

// findEntry returns the entry for (date, routineID) inside txn, or nil when absent.
func (s *BadgerStore) findEntry(txn *badger.Txn, date string, routineID int64) (*models.Entry, error) {
	id, err := getIDValue(txn, entryIndexKey(date, routineID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e models.Entry
	if err := getJSON(txn, idKey(prefixEntry, id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// putEntry writes e and its indexes, assigning an id to new entries.
func putEntry(txn *badger.Txn, e *models.Entry) error {
	if e.ID == 0 {
		id, err := nextID(txn, seqEntries)
		if err != nil {
			return err
		}
		e.ID = id
		if err := setIDValue(txn, entryIndexKey(e.Date, e.RoutineID), e.ID); err != nil {
			return err
		}
		if err := txn.Set(entryRoutineKey(e.RoutineID, e.ID), nil); err != nil {
			return err
		}
	}
	return setJSON(txn, idKey(prefixEntry, e.ID), e)
}

// GetEntry returns the entry for (date, routineID) or ErrNotFound.
func (s *BadgerStore) GetEntry(ctx context.Context, date string, routineID int64) (*models.Entry, error) {
	var out *models.Entry
	err := s.view(ctx, "get entry", func(txn *badger.Txn) error {
		e, err := s.findEntry(txn, date, routineID)
		if err != nil {
			return err
		}
		if e == nil {
			return ErrNotFound
		}
		out = e
		return nil
	})
	return out, err
}

// UpsertEntry merges patch into the entry for (date, routineID), creating it if needed.
func (s *BadgerStore) UpsertEntry(ctx context.Context, date string, routineID int64, patch models.EntryPatch) (*models.Entry, error) {
	return s.modifyEntry(ctx, "upsert entry", date, routineID, patch.Apply)
}

// AdjustCount adds delta to the entry count inside one transaction, never going below zero.
func (s *BadgerStore) AdjustCount(ctx context.Context, date string, routineID int64, delta int) (*models.Entry, error) {
	return s.modifyEntry(ctx, "adjust count", date, routineID, func(e *models.Entry) {
		e.Count = models.AddCount(e.Count, delta)
	})
}

func (s *BadgerStore) modifyEntry(ctx context.Context, op, date string, routineID int64, mutate func(*models.Entry)) (*models.Entry, error) {
	var out *models.Entry
	err := s.update(ctx, op, func(txn *badger.Txn) error {
		e, err := s.findEntry(txn, date, routineID)
		if err != nil {
			return err
		}
		if e == nil {
			e = &models.Entry{Date: date, RoutineID: routineID}
		}
		mutate(e)
		if err := putEntry(txn, e); err != nil {
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
func (s *BadgerStore) GetAllEntries(ctx context.Context) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := s.view(ctx, "get entries", func(txn *badger.Txn) error {
		var err error
		entries, err = scanEntries(txn)
		return err
	})
	return entries, err
}

// GetEntriesInRange returns entries dated from..to inclusive, walking the date index.
func (s *BadgerStore) GetEntriesInRange(ctx context.Context, from, to string) ([]*models.Entry, error) {
	entries := []*models.Entry{}
	err := s.view(ctx, "get entries in range", func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixEntryKey)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefixEntryKey + from)); it.ValidForPrefix(opts.Prefix); it.Next() {
			rest := strings.TrimPrefix(string(it.Item().Key()), prefixEntryKey)
			date, _, ok := strings.Cut(rest, ":")
			if !ok {
				continue
			}
			if date > to {
				break
			}
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt date index %q: %w", it.Item().Key(), err)
			}
			var e models.Entry
			if err := getJSON(txn, idKey(prefixEntry, id), &e); err != nil {
				return err
			}
			entries = append(entries, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceAll clears the store and loads routines and entries in one transaction.
// Routines receive fresh ids; entries are re-keyed through the resulting id map.
func (s *BadgerStore) ReplaceAll(ctx context.Context, routines []*models.Routine, entries []*models.Entry) (*RestoreResult, error) {
	var result *RestoreResult
	err := s.update(ctx, "replace all", func(txn *badger.Txn) error {
		if err := clearData(txn); err != nil {
			return err
		}

		result = &RestoreResult{IDMap: make(map[int64]int64, len(routines))}
		seen := make(map[string]bool, len(routines))
		for _, r := range sortedRoutines(routines) {
			if seen[r.Name] {
				return fmt.Errorf("%w: duplicate routine name %q", ErrConstraintViolation, r.Name)
			}
			seen[r.Name] = true

			id, err := nextID(txn, seqRoutines)
			if err != nil {
				return err
			}
			nr := restoredRoutine(r)
			nr.ID = id
			if err := putRoutine(txn, nr); err != nil {
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
			existing, err := s.findEntry(txn, e.Date, newID)
			if err != nil {
				return err
			}
			if existing == nil {
				existing = &models.Entry{Date: e.Date, RoutineID: newID}
				result.Entries++
			}
			existing.Count = e.Count
			existing.IsDone = e.IsDone
			if err := putEntry(txn, existing); err != nil {
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
