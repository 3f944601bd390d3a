// ABOUTME: Tracker owns the in-memory routine projection and the domain operations on it
// ABOUTME: Every mutation writes through to the store before the projection changes

package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hariviapak/routine-tracker/internal/logger"
	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/storage"
)

// ErrRoutineNotFound is returned when an operation names a routine the tracker does not know.
var ErrRoutineNotFound = errors.New("routine not found")

// Tracker keeps routines in memory, consistent with the store behind it.
type Tracker struct {
	store storage.Store
	log   *logger.Logger
	now   func() time.Time

	mu       sync.RWMutex
	routines map[int64]*models.Routine
}

// New creates a tracker over store. Call Load before use.
func New(store storage.Store, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Discard()
	}
	return &Tracker{
		store:    store,
		log:      log.WithComponent("tracker"),
		now:      time.Now,
		routines: make(map[int64]*models.Routine),
	}
}

// Store returns the underlying store.
func (t *Tracker) Store() storage.Store {
	return t.store
}

// Load replaces the projection with the routines in the store.
// When two stored routines share a name, the one with the lowest id wins.
func (t *Tracker) Load(ctx context.Context) error {
	routines, err := t.store.GetAllRoutines(ctx)
	if err != nil {
		return fmt.Errorf("load routines: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceProjection(routines)
	return nil
}

// replaceProjection rebuilds the map from routines. Caller holds t.mu.
func (t *Tracker) replaceProjection(routines []*models.Routine) {
	sorted := make([]*models.Routine, len(routines))
	copy(sorted, routines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	t.routines = make(map[int64]*models.Routine, len(sorted))
	seen := make(map[string]int64, len(sorted))
	for _, r := range sorted {
		if keptID, dup := seen[r.Name]; dup {
			t.log.Warn("dropping duplicate routine name from projection", "name", r.Name, "id", r.ID, "kept_id", keptID)
			continue
		}
		seen[r.Name] = r.ID
		rc := *r
		t.routines[r.ID] = &rc
	}
}

// Routines returns copies of all routines ordered by id.
func (t *Tracker) Routines() []*models.Routine {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortedRoutines()
}

// sortedRoutines copies the projection in id order. Caller holds t.mu.
func (t *Tracker) sortedRoutines() []*models.Routine {
	out := make([]*models.Routine, 0, len(t.routines))
	for _, r := range t.routines {
		rc := *r
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Routine returns a copy of the routine with the given id.
func (t *Tracker) Routine(id int64) (*models.Routine, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routines[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}
	rc := *r
	return &rc, nil
}

// RoutineByName returns a copy of the routine with the given name, ignoring surrounding space.
func (t *Tracker) RoutineByName(name string) (*models.Routine, error) {
	name = strings.TrimSpace(name)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.routines {
		if r.Name == name {
			rc := *r
			return &rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrRoutineNotFound, name)
}

// AddRoutine validates in, stores a new routine, and adds it to the projection.
func (t *Tracker) AddRoutine(ctx context.Context, in models.RoutineInput) (*models.Routine, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := models.NewRoutine(in)
	if _, err := t.store.CreateRoutine(ctx, r); err != nil {
		return nil, fmt.Errorf("add routine %q: %w", in.Name, err)
	}
	t.routines[r.ID] = r
	t.log.Debug("routine added", "id", r.ID, "name", r.Name)

	rc := *r
	return &rc, nil
}

// UpdateRoutine validates in and rewrites the routine with the given id.
func (t *Tracker) UpdateRoutine(ctx context.Context, id int64, in models.RoutineInput) (*models.Routine, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.routines[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}

	updated := *existing
	updated.Name = in.Name
	updated.Type = in.Type
	updated.Target = in.Target
	updated.Icon = in.Icon
	updated.UpdatedAt = t.now().UTC()

	if err := t.store.UpdateRoutine(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update routine %d: %w", id, err)
	}
	t.routines[id] = &updated

	rc := updated
	return &rc, nil
}

// DeleteRoutine removes a routine and all its entries.
func (t *Tracker) DeleteRoutine(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routines[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}
	if err := t.store.DeleteRoutine(ctx, id); err != nil {
		return fmt.Errorf("delete routine %d: %w", id, err)
	}
	delete(t.routines, id)
	t.log.Debug("routine deleted", "id", id)
	return nil
}

// RestoreDefaults creates each seed routine whose name is not already in use.
// It returns the routines it created; existing routines are left untouched.
func (t *Tracker) RestoreDefaults(ctx context.Context) ([]*models.Routine, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make(map[string]bool, len(t.routines))
	for _, r := range t.routines {
		names[r.Name] = true
	}

	var created []*models.Routine
	for _, seed := range models.DefaultRoutines() {
		if names[seed.Name] {
			continue
		}
		in, err := seed.Normalize()
		if err != nil {
			return created, err
		}
		r := models.NewRoutine(in)
		if _, err := t.store.CreateRoutine(ctx, r); err != nil {
			return created, fmt.Errorf("restore default %q: %w", seed.Name, err)
		}
		t.routines[r.ID] = r
		names[r.Name] = true
		rc := *r
		created = append(created, &rc)
	}
	return created, nil
}

// DeleteAllRoutines removes every routine. Recorded entries stay in the store.
func (t *Tracker) DeleteAllRoutines(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ClearRoutines(ctx); err != nil {
		return fmt.Errorf("delete all routines: %w", err)
	}
	t.routines = make(map[int64]*models.Routine)
	return nil
}

// ClearAll removes every routine and entry.
func (t *Tracker) ClearAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	t.routines = make(map[int64]*models.Routine)
	return nil
}

// lookup returns the projected routine for id. Caller holds t.mu.
func (t *Tracker) lookup(id int64) (*models.Routine, error) {
	r, ok := t.routines[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}
	return r, nil
}

// RecordCounterDelta adds delta to a counter routine's count for date, flooring at zero.
func (t *Tracker) RecordCounterDelta(ctx context.Context, date string, id int64, delta int) (*models.Entry, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	r, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	if r.Type != models.TypeCounter {
		return nil, fmt.Errorf("%w: %q is not a counter routine", models.ErrValidation, r.Name)
	}

	e, err := t.store.AdjustCount(ctx, date, id, delta)
	if err != nil {
		return nil, fmt.Errorf("record count for %q: %w", r.Name, err)
	}
	return e, nil
}

// RecordDone sets a done routine's flag for date.
func (t *Tracker) RecordDone(ctx context.Context, date string, id int64, isDone bool) (*models.Entry, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	r, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	if r.Type != models.TypeDone {
		return nil, fmt.Errorf("%w: %q is not a done routine", models.ErrValidation, r.Name)
	}

	e, err := t.store.UpsertEntry(ctx, date, id, models.DonePatch(isDone))
	if err != nil {
		return nil, fmt.Errorf("record done for %q: %w", r.Name, err)
	}
	return e, nil
}

// GetEntry returns the entry for (date, id), or nil when nothing was recorded.
func (t *Tracker) GetEntry(ctx context.Context, date string, id int64) (*models.Entry, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, err
	}
	e, err := t.store.GetEntry(ctx, date, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}
