// ABOUTME: Unit tests for terminal UI formatting
// ABOUTME: Tests human-readable output for routines, days, and weeks

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

func init() {
	color.NoColor = true
}

var (
	water = &models.Routine{ID: 1, Name: "Water", Type: models.TypeCounter, Target: 7, Icon: "💧", CreatedAt: time.Now().Add(-48 * time.Hour)}
	yoga  = &models.Routine{ID: 2, Name: "Yoga", Type: models.TypeDone, Target: 1, CreatedAt: time.Now()}
)

func TestFormatRoutine(t *testing.T) {
	output := FormatRoutine(water)
	for _, want := range []string{"#1", "💧 Water", "counter, target 7", "2 days ago"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}

	output = FormatRoutine(yoga)
	if !strings.Contains(output, "(done)") {
		t.Errorf("expected done kind in %q", output)
	}
	if !strings.Contains(output, "just now") {
		t.Errorf("expected 'just now' in %q", output)
	}
}

func TestFormatRoutine_Nil(t *testing.T) {
	if !strings.Contains(FormatRoutine(nil), "invalid routine") {
		t.Error("expected nil routine message")
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name string
		p    tracker.Progress
		want string
	}{
		{"counter_partial", tracker.Progress{Routine: water, Entry: &models.Entry{Count: 3}}, "○ 💧 Water 3/7"},
		{"counter_complete", tracker.Progress{Routine: water, Entry: &models.Entry{Count: 7}, Complete: true}, "✓ 💧 Water 7/7"},
		{"counter_absent", tracker.Progress{Routine: water}, "○ 💧 Water 0/7"},
		{"done_complete", tracker.Progress{Routine: yoga, Entry: &models.Entry{IsDone: true}, Complete: true}, "✓ Yoga"},
		{"done_absent", tracker.Progress{Routine: yoga}, "○ Yoga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatProgress(tt.p); got != tt.want {
				t.Errorf("FormatProgress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDay(t *testing.T) {
	day := &tracker.DayView{
		Date:      "2024-01-01",
		Completed: 1,
		Total:     2,
		Progress: []tracker.Progress{
			{Routine: water, Entry: &models.Entry{Count: 7}, Complete: true},
			{Routine: yoga},
		},
	}
	output := FormatDay(day)
	for _, want := range []string{"2024-01-01", "1/2 complete", "✓ 💧 Water 7/7", "○ Yoga"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
}

func TestFormatDay_Empty(t *testing.T) {
	output := FormatDay(&tracker.DayView{Date: "2024-01-01"})
	if !strings.Contains(output, "No routines yet") {
		t.Errorf("expected empty notice, got %q", output)
	}
}

func TestFormatWeek(t *testing.T) {
	week := &tracker.WeekView{
		Start:    "2023-12-31",
		End:      "2024-01-06",
		Routines: []*models.Routine{water, yoga},
	}
	dates := []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"}
	for i, d := range dates {
		day := tracker.DayView{Date: d, Progress: []tracker.Progress{{Routine: water}, {Routine: yoga}}}
		if i == 1 {
			day.Progress[0] = tracker.Progress{Routine: water, Entry: &models.Entry{Count: 7}, Complete: true}
			day.Progress[1] = tracker.Progress{Routine: yoga, Entry: &models.Entry{IsDone: true}, Complete: true}
		}
		week.Days = append(week.Days, day)
	}

	output := FormatWeek(week)
	for _, want := range []string{"Week of 2023-12-31", "Day", "💧 Water", "Yoga", "Sun 12-31", "Mon 01-01", "7/7 ✓", "Sat 01-06"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in\n%s", want, output)
		}
	}
	if strings.Index(output, "Sun 12-31") > strings.Index(output, "Mon 01-01") {
		t.Error("expected Sunday row before Monday row")
	}
}

func TestFormatWeek_NoRoutines(t *testing.T) {
	output := FormatWeek(&tracker.WeekView{Start: "2023-12-31"})
	if !strings.Contains(output, "No routines yet.") {
		t.Errorf("expected empty notice, got %q", output)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		contains string
	}{
		{"just_now", time.Now(), "just now"},
		{"hours", time.Now().Add(-3 * time.Hour), "3 hours ago"},
		{"days", time.Now().Add(-72 * time.Hour), "3 days ago"},
		{"future", time.Now().Add(2 * time.Hour), "in the future"},
		{"zero", time.Time{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatRelativeTime(tt.time)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("FormatRelativeTime() = %q, want to contain %q", result, tt.contains)
			}
		})
	}
}
