// ABOUTME: JSON response shapes for the HTTP API
// ABOUTME: Maps domain models and tracker views onto camelCase wire fields

package api

import (
	"time"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

type routineResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Target    int       `json:"target"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type entryResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	RoutineID int64  `json:"routineId"`
	Count     int    `json:"count"`
	IsDone    bool   `json:"isDone"`
}

// progressResponse flattens count and done so clients need not inspect entry.
type progressResponse struct {
	Routine  routineResponse `json:"routine"`
	Entry    *entryResponse  `json:"entry,omitempty"`
	Count    int             `json:"count"`
	Done     bool            `json:"done"`
	Complete bool            `json:"complete"`
}

type dayResponse struct {
	Date      string             `json:"date"`
	Progress  []progressResponse `json:"progress"`
	Completed int                `json:"completed"`
	Total     int                `json:"total"`
}

type weekResponse struct {
	Start    string            `json:"start"`
	End      string            `json:"end"`
	Routines []routineResponse `json:"routines"`
	Days     []dayResponse     `json:"days"`
}

func toRoutine(r *models.Routine) routineResponse {
	return routineResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      string(r.Type),
		Target:    r.Target,
		Icon:      r.Icon,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// toRoutines never returns nil so empty lists encode as [].
func toRoutines(routines []*models.Routine) []routineResponse {
	out := make([]routineResponse, 0, len(routines))
	for _, r := range routines {
		out = append(out, toRoutine(r))
	}
	return out
}

// toEntry returns nil for a missing entry, which encodes as null.
func toEntry(e *models.Entry) *entryResponse {
	if e == nil {
		return nil
	}
	return &entryResponse{
		ID:        e.ID,
		Date:      e.Date,
		RoutineID: e.RoutineID,
		Count:     e.Count,
		IsDone:    e.IsDone,
	}
}

func toProgress(p tracker.Progress) progressResponse {
	return progressResponse{
		Routine:  toRoutine(p.Routine),
		Entry:    toEntry(p.Entry),
		Count:    p.Count(),
		Done:     p.Done(),
		Complete: p.Complete,
	}
}

func toDay(d tracker.DayView) dayResponse {
	out := dayResponse{
		Date:      d.Date,
		Progress:  make([]progressResponse, 0, len(d.Progress)),
		Completed: d.Completed,
		Total:     d.Total,
	}
	for _, p := range d.Progress {
		out.Progress = append(out.Progress, toProgress(p))
	}
	return out
}

func toWeek(w *tracker.WeekView) weekResponse {
	out := weekResponse{
		Start:    w.Start,
		End:      w.End,
		Routines: toRoutines(w.Routines),
		Days:     make([]dayResponse, 0, len(w.Days)),
	}
	for _, d := range w.Days {
		out.Days = append(out.Days, toDay(d))
	}
	return out
}
