// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for routines, daily progress, and the weekly table

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

const (
	markDone    = "✓"
	markPending = "○"
)

var faint = color.New(color.Faint)

// DisplayName returns the routine name prefixed by its icon, if any.
func DisplayName(r *models.Routine) string {
	if r.Icon != "" {
		return r.Icon + " " + r.Name
	}
	return r.Name
}

// FormatRoutine formats a routine for list display.
func FormatRoutine(r *models.Routine) string {
	if r == nil {
		return faint.Sprint("(invalid routine)")
	}
	var kind string
	if r.Type == models.TypeCounter {
		kind = fmt.Sprintf("counter, target %d", r.Target)
	} else {
		kind = "done"
	}
	return fmt.Sprintf("%s %s %s %s",
		faint.Sprintf("#%d", r.ID),
		color.GreenString(DisplayName(r)),
		faint.Sprintf("(%s)", kind),
		faint.Sprintf("added %s", FormatRelativeTime(r.CreatedAt)))
}

// FormatProgress formats one routine's progress on a day.
func FormatProgress(p tracker.Progress) string {
	mark := color.New(color.Faint).Sprint(markPending)
	if p.Complete {
		mark = color.GreenString(markDone)
	}

	name := DisplayName(p.Routine)
	if p.Routine.Type == models.TypeCounter {
		count := fmt.Sprintf("%d/%d", p.Count(), p.Routine.Target)
		if p.Complete {
			count = color.GreenString(count)
		} else {
			count = color.YellowString(count)
		}
		return fmt.Sprintf("%s %s %s", mark, name, count)
	}
	return fmt.Sprintf("%s %s", mark, name)
}

// FormatDay formats the progress of every routine on one date.
func FormatDay(day *tracker.DayView) string {
	var sb strings.Builder
	sb.WriteString(color.CyanString(day.Date))
	sb.WriteString(faint.Sprintf(" %d/%d complete\n", day.Completed, day.Total))
	if len(day.Progress) == 0 {
		sb.WriteString(faint.Sprint("No routines yet. Add one with 'routine add' or run 'routine defaults'.\n"))
		return sb.String()
	}
	for _, p := range day.Progress {
		sb.WriteString("  ")
		sb.WriteString(FormatProgress(p))
		sb.WriteString("\n")
	}
	return sb.String()
}

// weekCell renders a routine's state for one day in the weekly table.
func weekCell(p tracker.Progress) string {
	if p.Routine.Type == models.TypeCounter {
		if p.Entry == nil {
			return "-"
		}
		cell := fmt.Sprintf("%d/%d", p.Count(), p.Routine.Target)
		if p.Complete {
			cell += " " + markDone
		}
		return cell
	}
	if p.Complete {
		return markDone
	}
	return "-"
}

// FormatWeek renders the weekly table with one row per day and one column per routine.
func FormatWeek(week *tracker.WeekView) string {
	title := fmt.Sprintf("Week of %s", week.Start)
	if len(week.Routines) == 0 {
		return title + "\n" + faint.Sprint("No routines yet.") + "\n"
	}

	headers := make([]string, 0, len(week.Routines)+1)
	headers = append(headers, "Day")
	for _, r := range week.Routines {
		headers = append(headers, DisplayName(r))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...)

	for _, day := range week.Days {
		row := make([]string, 0, len(day.Progress)+1)
		label := day.Date
		if d, err := models.ParseDate(day.Date); err == nil {
			label = d.Format("Mon 01-02")
		}
		row = append(row, label)
		for _, p := range day.Progress {
			row = append(row, weekCell(p))
		}
		t.Row(row...)
	}

	return title + "\n" + t.Render() + "\n"
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "at an unknown time"
	}
	if time.Until(t) > time.Minute {
		// Clock skew or bad data
		return color.YellowString("in the future")
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}
