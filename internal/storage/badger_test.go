// ABOUTME: Tests for the badger storage implementation
// ABOUTME: Covers on-disk persistence, index keys, and logger routing

package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	badger "github.com/dgraph-io/badger/v3"

	"github.com/hariviapak/routine-tracker/internal/models"
)

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	s, err := NewBadgerStore(dir, BadgerOptions{})
	mustNoError(t, err)
	r := mustCreate(t, s, "Yoga", models.TypeDone, 1)
	_, err = s.UpsertEntry(ctx, "2024-01-01", r.ID, models.DonePatch(true))
	mustNoError(t, err)
	mustNoError(t, s.Close())

	s, err = NewBadgerStore(dir, BadgerOptions{})
	mustNoError(t, err)
	defer s.Close()

	routines, err := s.GetAllRoutines(ctx)
	mustNoError(t, err)
	if len(routines) != 1 || routines[0].Name != "Yoga" {
		t.Fatalf("expected Yoga after reopen, got %+v", routines)
	}
	e, err := s.GetEntry(ctx, "2024-01-01", r.ID)
	mustNoError(t, err)
	if !e.IsDone {
		t.Error("expected done entry after reopen")
	}

	next := mustCreate(t, s, "Water", models.TypeCounter, 7)
	if next.ID <= r.ID {
		t.Errorf("expected sequence to survive reopen, got id %d after %d", next.ID, r.ID)
	}
}

func TestBadgerStore_IndexKeys(t *testing.T) {
	s := testBadger(t)
	ctx := context.Background()
	r := mustCreate(t, s, "Water", models.TypeCounter, 7)
	e, err := s.AdjustCount(ctx, "2024-01-01", r.ID, 2)
	mustNoError(t, err)

	want := [][]byte{
		idKey(prefixRoutine, r.ID),
		nameKey("Water"),
		idKey(prefixEntry, e.ID),
		entryIndexKey("2024-01-01", r.ID),
		entryRoutineKey(r.ID, e.ID),
	}
	err = s.db.View(func(txn *badger.Txn) error {
		for _, k := range want {
			if _, err := txn.Get(k); err != nil {
				t.Errorf("expected key %q: %v", k, err)
			}
		}
		return nil
	})
	mustNoError(t, err)

	mustNoError(t, s.DeleteRoutine(ctx, r.ID))
	err = s.db.View(func(txn *badger.Txn) error {
		for _, k := range want {
			if _, err := txn.Get(k); err == nil {
				t.Errorf("expected key %q to be removed", k)
			}
		}
		return nil
	})
	mustNoError(t, err)
}

func TestBadgerStore_RenameFreesOldName(t *testing.T) {
	s := testBadger(t)
	ctx := context.Background()
	r := mustCreate(t, s, "Water", models.TypeCounter, 7)

	r.Name = "Hydrate"
	mustNoError(t, s.UpdateRoutine(ctx, r))

	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey("Water")); err == nil {
			t.Error("expected old name index to be removed")
		}
		if _, err := txn.Get(nameKey("Hydrate")); err != nil {
			t.Errorf("expected new name index: %v", err)
		}
		return nil
	})
	mustNoError(t, err)
}

func TestBadgerLogger_RoutesToAppLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	bl := badgerLogger{l: l}

	bl.Warningf("value log %s\n", "rotated")
	bl.Errorf("compaction failed: %d", 3)

	out := buf.String()
	if !strings.Contains(out, "value log rotated") {
		t.Errorf("expected warning in output, got %q", out)
	}
	if !strings.Contains(out, "compaction failed: 3") {
		t.Errorf("expected error in output, got %q", out)
	}
}
