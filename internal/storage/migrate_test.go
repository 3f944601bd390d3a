// ABOUTME: Tests for storage migration between routine backends
// ABOUTME: Covers sqlite-to-badger, badger-to-sqlite, data integrity, and roundtrips

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// seedRoutineData populates a store with a representative data set.
func seedRoutineData(t *testing.T, src Store) {
	t.Helper()
	ctx := context.Background()

	water := mustCreate(t, src, "Water", models.TypeCounter, 7)
	yoga := mustCreate(t, src, "Yoga", models.TypeDone, 1)

	_, err := src.AdjustCount(ctx, "2024-01-01", water.ID, 5)
	mustNoError(t, err)
	_, err = src.AdjustCount(ctx, "2024-01-02", water.ID, 7)
	mustNoError(t, err)
	_, err = src.UpsertEntry(ctx, "2024-01-01", yoga.ID, models.DonePatch(true))
	mustNoError(t, err)
}

// verifyMigratedRoutineData checks that dst holds the seeded data under its own ids.
func verifyMigratedRoutineData(t *testing.T, dst Store) {
	t.Helper()
	ctx := context.Background()

	routines, err := dst.GetAllRoutines(ctx)
	mustNoError(t, err)
	if len(routines) != 2 {
		t.Fatalf("expected 2 routines, got %d", len(routines))
	}
	byName := make(map[string]*models.Routine)
	for _, r := range routines {
		byName[r.Name] = r
	}

	water, ok := byName["Water"]
	if !ok || water.Type != models.TypeCounter || water.Target != 7 {
		t.Fatalf("Water not migrated intact: %+v", water)
	}
	yoga, ok := byName["Yoga"]
	if !ok || yoga.Type != models.TypeDone {
		t.Fatalf("Yoga not migrated intact: %+v", yoga)
	}

	e, err := dst.GetEntry(ctx, "2024-01-01", water.ID)
	mustNoError(t, err)
	if e.Count != 5 {
		t.Errorf("expected Water count 5 on 2024-01-01, got %d", e.Count)
	}
	e, err = dst.GetEntry(ctx, "2024-01-02", water.ID)
	mustNoError(t, err)
	if e.Count != 7 {
		t.Errorf("expected Water count 7 on 2024-01-02, got %d", e.Count)
	}
	e, err = dst.GetEntry(ctx, "2024-01-01", yoga.ID)
	mustNoError(t, err)
	if !e.IsDone {
		t.Error("expected Yoga done on 2024-01-01")
	}
}

func TestMigrateData_SQLiteToBadger(t *testing.T) {
	src := testDB(t)
	dst := testBadger(t)
	seedRoutineData(t, src)

	summary, err := MigrateData(context.Background(), src, dst)
	mustNoError(t, err)
	if summary.Routines != 2 || summary.Entries != 3 || summary.Skipped != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
	verifyMigratedRoutineData(t, dst)
}

func TestMigrateData_BadgerToSQLite(t *testing.T) {
	src := testBadger(t)
	dst := testDB(t)
	seedRoutineData(t, src)

	_, err := MigrateData(context.Background(), src, dst)
	mustNoError(t, err)
	verifyMigratedRoutineData(t, dst)
}

func TestMigrateData_Roundtrip(t *testing.T) {
	ctx := context.Background()
	first := testDB(t)
	middle := testBadger(t)
	last := testDB(t)
	seedRoutineData(t, first)

	_, err := MigrateData(ctx, first, middle)
	mustNoError(t, err)
	_, err = MigrateData(ctx, middle, last)
	mustNoError(t, err)
	verifyMigratedRoutineData(t, last)
}

func TestMigrateData_OrphanEntriesSkipped(t *testing.T) {
	ctx := context.Background()
	src := testDB(t)
	dst := testBadger(t)
	seedRoutineData(t, src)

	// Clearing routines leaves entries behind with no owner.
	mustNoError(t, src.ClearRoutines(ctx))
	mustCreate(t, src, "Fruits", models.TypeCounter, 2)

	summary, err := MigrateData(ctx, src, dst)
	mustNoError(t, err)
	if summary.Routines != 1 || summary.Entries != 0 || summary.Skipped != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestMigrateData_EmptySource(t *testing.T) {
	src := testBadger(t)
	dst := testDB(t)

	summary, err := MigrateData(context.Background(), src, dst)
	mustNoError(t, err)
	if summary.Routines != 0 || summary.Entries != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	mustNoError(t, err)
	if nonEmpty {
		t.Error("missing directory should report empty")
	}

	nonEmpty, err = IsDirNonEmpty(dir)
	mustNoError(t, err)
	if nonEmpty {
		t.Error("fresh directory should report empty")
	}

	mustNoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600))
	nonEmpty, err = IsDirNonEmpty(dir)
	mustNoError(t, err)
	if !nonEmpty {
		t.Error("directory with a file should report non-empty")
	}
}
