// ABOUTME: Store interfaces for routine and entry persistence
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"context"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// RoutineRepository defines operations for managing routines.
type RoutineRepository interface {
	// CreateRoutine inserts a routine and returns its assigned id.
	CreateRoutine(ctx context.Context, r *models.Routine) (int64, error)
	// UpdateRoutine writes all fields of r, inserting it if the id is unknown.
	UpdateRoutine(ctx context.Context, r *models.Routine) error
	// DeleteRoutine removes a routine and every entry referencing it.
	DeleteRoutine(ctx context.Context, id int64) error
	GetAllRoutines(ctx context.Context) ([]*models.Routine, error)
	// ClearRoutines removes every routine. Entries are left in place.
	ClearRoutines(ctx context.Context) error
}

// EntryRepository defines operations for managing daily entries.
type EntryRepository interface {
	GetEntry(ctx context.Context, date string, routineID int64) (*models.Entry, error)
	UpsertEntry(ctx context.Context, date string, routineID int64, patch models.EntryPatch) (*models.Entry, error)
	// AdjustCount adds delta to the entry count, flooring at zero, in one transaction.
	AdjustCount(ctx context.Context, date string, routineID int64, delta int) (*models.Entry, error)
	GetAllEntries(ctx context.Context) ([]*models.Entry, error)
	// GetEntriesInRange returns entries with from <= date <= to.
	GetEntriesInRange(ctx context.Context, from, to string) ([]*models.Entry, error)
}

// Store combines all repository operations with lifecycle management.
type Store interface {
	RoutineRepository
	EntryRepository
	ClearAll(ctx context.Context) error
	// ReplaceAll atomically clears the store and loads the given data.
	ReplaceAll(ctx context.Context, routines []*models.Routine, entries []*models.Entry) (*RestoreResult, error)
	// Path returns where the store keeps its data.
	Path() string
	Close() error
}

// RestoreResult reports what ReplaceAll wrote.
type RestoreResult struct {
	Routines int
	Entries  int
	// Skipped counts entries whose routine id was not among the replaced routines.
	Skipped int
	// IDMap maps each incoming routine id to its newly assigned id.
	IDMap map[int64]int64
}
