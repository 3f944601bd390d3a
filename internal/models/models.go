// ABOUTME: Core data models for routines and daily entries
// ABOUTME: Provides constructors, validators, and the derived completion rule

package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrValidation is returned when input is rejected before it reaches storage.
var ErrValidation = errors.New("validation failed")

// MaxNameLength bounds routine names.
const MaxNameLength = 255

// RoutineType selects how progress on a routine is recorded.
type RoutineType string

const (
	// TypeCounter routines count occurrences against a target.
	TypeCounter RoutineType = "counter"
	// TypeDone routines are simply done or not done on a day.
	TypeDone RoutineType = "done"
)

// ParseRoutineType parses a routine type, ignoring case and surrounding space.
func ParseRoutineType(s string) (RoutineType, error) {
	switch RoutineType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCounter:
		return TypeCounter, nil
	case TypeDone:
		return TypeDone, nil
	default:
		return "", fmt.Errorf("%w: unknown routine type %q (use 'counter' or 'done')", ErrValidation, s)
	}
}

// ValidateName checks that a routine name is non-empty after trimming and within length limits.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty or whitespace", ErrValidation)
	}
	if len(trimmed) > MaxNameLength {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrValidation, MaxNameLength)
	}
	return nil
}

// ValidateTarget checks that a target is not negative.
func ValidateTarget(target int) error {
	if target < 0 {
		return fmt.Errorf("%w: target cannot be negative", ErrValidation)
	}
	return nil
}

// ValidateCount checks that a recorded count is not negative.
func ValidateCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: count cannot be negative", ErrValidation)
	}
	return nil
}

// AddCount applies delta to count, saturating at math.MaxInt and flooring at zero.
func AddCount(count, delta int) int {
	if count < 0 {
		count = 0
	}
	if delta > 0 && count > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, count+delta)
}

// Routine is a user-defined habit tracked over time.
type Routine struct {
	ID        int64       `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Type      RoutineType `json:"type" db:"type"`
	Target    int         `json:"target" db:"target"`
	Icon      string      `json:"icon" db:"icon"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// Entry is the recorded progress of one routine on one calendar date.
// Count is meaningful for counter routines, IsDone for done routines.
type Entry struct {
	ID        int64  `json:"id" db:"id"`
	Date      string `json:"date" db:"date"`
	RoutineID int64  `json:"routine_id" db:"routine_id"`
	Count     int    `json:"count" db:"count"`
	IsDone    bool   `json:"is_done" db:"is_done"`
}

// EntryPatch holds the fields to merge into an entry. Nil fields are left untouched.
type EntryPatch struct {
	Count  *int
	IsDone *bool
}

// Apply merges the patch into e.
func (p EntryPatch) Apply(e *Entry) {
	if p.Count != nil {
		e.Count = *p.Count
	}
	if p.IsDone != nil {
		e.IsDone = *p.IsDone
	}
}

// CountPatch returns a patch setting only the count.
func CountPatch(count int) EntryPatch {
	return EntryPatch{Count: &count}
}

// DonePatch returns a patch setting only the done flag.
func DonePatch(isDone bool) EntryPatch {
	return EntryPatch{IsDone: &isDone}
}

// RoutineInput carries the user-editable fields of a routine.
type RoutineInput struct {
	Name   string
	Type   RoutineType
	Target int
	Icon   string
}

// Normalize trims the input, validates it, and applies type defaults.
// A done routine with a zero target is treated as target 1.
func (in RoutineInput) Normalize() (RoutineInput, error) {
	if err := ValidateName(in.Name); err != nil {
		return in, err
	}
	typ := in.Type
	if typ == "" {
		typ = TypeCounter
	}
	typ, err := ParseRoutineType(string(typ))
	if err != nil {
		return in, err
	}
	if err := ValidateTarget(in.Target); err != nil {
		return in, err
	}

	out := RoutineInput{
		Name:   strings.TrimSpace(in.Name),
		Type:   typ,
		Target: in.Target,
		Icon:   strings.TrimSpace(in.Icon),
	}
	if out.Type == TypeDone && out.Target == 0 {
		out.Target = 1
	}
	return out, nil
}

// NewRoutine creates a routine from normalized input with current timestamps.
// The ID is assigned by the store.
func NewRoutine(in RoutineInput) *Routine {
	now := time.Now().UTC()
	return &Routine{
		Name:      in.Name,
		Type:      in.Type,
		Target:    in.Target,
		Icon:      in.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsComplete derives completion of a routine on a day from its entry.
// A missing entry is never complete.
func IsComplete(r *Routine, e *Entry) bool {
	if r == nil || e == nil {
		return false
	}
	if r.Type == TypeCounter {
		return e.Count >= r.Target
	}
	return e.IsDone
}

// DefaultRoutines returns the seed routines offered by restore-defaults.
func DefaultRoutines() []RoutineInput {
	return []RoutineInput{
		{Name: "Water", Type: TypeCounter, Target: 7},
		{Name: "Medicine", Type: TypeCounter, Target: 2},
		{Name: "Sugar Cane Juice", Type: TypeDone, Target: 1},
		{Name: "Fruits", Type: TypeCounter, Target: 2},
		{Name: "Yoga", Type: TypeDone, Target: 1},
		{Name: "Clean Diet", Type: TypeDone, Target: 1},
		{Name: "Coconut Water", Type: TypeDone, Target: 1},
	}
}
