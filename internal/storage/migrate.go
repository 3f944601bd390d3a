// ABOUTME: Data migration between routine storage backends
// ABOUTME: Copies routines and entries from a source store into a destination store

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Routines int
	Entries  int
	Skipped  int
}

// MigrateData copies all data from src to dst, replacing whatever dst held.
// Routine ids are reassigned by dst and entries follow their routine.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	routines, err := src.GetAllRoutines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source routines: %w", err)
	}

	entries, err := src.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source entries: %w", err)
	}

	res, err := dst.ReplaceAll(ctx, routines, entries)
	if err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Routines: res.Routines,
		Entries:  res.Entries,
		Skipped:  res.Skipped,
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
