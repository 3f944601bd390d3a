// ABOUTME: Read-side views over routines and entries for a day and a week
// ABOUTME: Completion is always derived from the entry, never stored

package tracker

import (
	"context"
	"fmt"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// Progress is one routine's state on one date.
type Progress struct {
	Routine  *models.Routine
	Entry    *models.Entry
	Complete bool
}

// Count returns the recorded count, zero when nothing was recorded.
func (p Progress) Count() int {
	if p.Entry == nil {
		return 0
	}
	return p.Entry.Count
}

// Done returns the recorded done flag, false when nothing was recorded.
func (p Progress) Done() bool {
	return p.Entry != nil && p.Entry.IsDone
}

// DayView is every routine's progress on one date.
type DayView struct {
	Date      string
	Progress  []Progress
	Completed int
	Total     int
}

// WeekView is the weekly table: seven days, Sunday first, one cell per routine.
type WeekView struct {
	Start    string
	End      string
	Routines []*models.Routine
	Days     []DayView
}

type entryKey struct {
	date string
	id   int64
}

// Day returns each routine's progress on date, in routine id order.
func (t *Tracker) Day(ctx context.Context, date string) (*DayView, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, err
	}
	routines := t.Routines()
	entries, err := t.store.GetEntriesInRange(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	day := buildDay(date, routines, indexEntries(entries))
	return &day, nil
}

// Week returns the Sunday-to-Saturday week containing date.
func (t *Tracker) Week(ctx context.Context, date string) (*WeekView, error) {
	dates, err := models.WeekDates(date)
	if err != nil {
		return nil, err
	}
	routines := t.Routines()
	entries, err := t.store.GetEntriesInRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("load week of %s: %w", dates[0], err)
	}

	byKey := indexEntries(entries)
	week := &WeekView{
		Start:    dates[0],
		End:      dates[len(dates)-1],
		Routines: routines,
		Days:     make([]DayView, 0, len(dates)),
	}
	for _, d := range dates {
		week.Days = append(week.Days, buildDay(d, routines, byKey))
	}
	return week, nil
}

// indexEntries keys entries by (date, routine), keeping the first per key.
func indexEntries(entries []*models.Entry) map[entryKey]*models.Entry {
	byKey := make(map[entryKey]*models.Entry, len(entries))
	for _, e := range entries {
		k := entryKey{e.Date, e.RoutineID}
		if _, ok := byKey[k]; !ok {
			byKey[k] = e
		}
	}
	return byKey
}

func buildDay(date string, routines []*models.Routine, byKey map[entryKey]*models.Entry) DayView {
	day := DayView{
		Date:     date,
		Progress: make([]Progress, 0, len(routines)),
		Total:    len(routines),
	}
	for _, r := range routines {
		e := byKey[entryKey{date, r.ID}]
		p := Progress{Routine: r, Entry: e, Complete: models.IsComplete(r, e)}
		if p.Complete {
			day.Completed++
		}
		day.Progress = append(day.Progress, p)
	}
	return day
}
