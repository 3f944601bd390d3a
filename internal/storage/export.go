// ABOUTME: Markdown history report for routine data
// ABOUTME: Renders one progress table per week over a date range

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// entryKey identifies an entry by its date and routine.
type entryKey struct {
	date      string
	routineID int64
}

// ExportMarkdown renders routine progress between from and to (inclusive) as markdown,
// one table per Sunday-started week.
func ExportMarkdown(ctx context.Context, store Store, from, to string) ([]byte, error) {
	start, err := models.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", models.ErrValidation, to, from)
	}

	routines, err := store.GetAllRoutines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	entries, err := store.GetEntriesInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	byKey := make(map[entryKey]*models.Entry, len(entries))
	for _, e := range entries {
		k := entryKey{e.Date, e.RoutineID}
		if _, ok := byKey[k]; !ok {
			byKey[k] = e
		}
	}

	var sb strings.Builder
	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Routine History - %s to %s\n\n", from, to))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(routines) == 0 {
		sb.WriteString("No routines tracked.\n")
		return []byte(sb.String()), nil
	}

	weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	for ; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		sb.WriteString(fmt.Sprintf("## Week of %s\n\n", models.FormatDate(weekStart)))

		sb.WriteString("| Date |")
		for _, r := range routines {
			sb.WriteString(fmt.Sprintf(" %s |", routineHeading(r)))
		}
		sb.WriteString("\n|------|")
		for range routines {
			sb.WriteString("------|")
		}
		sb.WriteString("\n")

		for i := 0; i < 7; i++ {
			day := weekStart.AddDate(0, 0, i)
			if day.Before(start) || day.After(end) {
				continue
			}
			date := models.FormatDate(day)
			sb.WriteString(fmt.Sprintf("| %s %s |", day.Format("Mon"), date))
			for _, r := range routines {
				sb.WriteString(fmt.Sprintf(" %s |", markdownCell(r, byKey[entryKey{date, r.ID}])))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

func routineHeading(r *models.Routine) string {
	if r.Icon != "" {
		return r.Icon + " " + r.Name
	}
	return r.Name
}

// markdownCell renders one routine's progress for one day.
func markdownCell(r *models.Routine, e *models.Entry) string {
	complete := models.IsComplete(r, e)
	if r.Type == models.TypeDone {
		if complete {
			return "✓"
		}
		return "-"
	}
	count := 0
	if e != nil {
		count = e.Count
	}
	cell := fmt.Sprintf("%d/%d", count, r.Target)
	if complete {
		cell += " ✓"
	}
	return cell
}
