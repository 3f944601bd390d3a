// ABOUTME: HTTP handlers for routines, entries, views, and backups
// ABOUTME: Decodes requests and maps tracker results to JSON responses

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hariviapak/routine-tracker/internal/backup"
	"github.com/hariviapak/routine-tracker/internal/models"
)

type routineRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Target int    `json:"target"`
	Icon   string `json:"icon"`
}

func (req routineRequest) input() models.RoutineInput {
	return models.RoutineInput{
		Name:   req.Name,
		Type:   models.RoutineType(req.Type),
		Target: req.Target,
		Icon:   req.Icon,
	}
}

type countRequest struct {
	Delta int `json:"delta"`
}

type doneRequest struct {
	Done bool `json:"done"`
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return nil
}

func routineID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid routine id %q", models.ErrValidation, raw)
	}
	return id, nil
}

// dateParam reads the {date} path segment; "today" means the local date.
func dateParam(r *http.Request) string {
	date := chi.URLParam(r, "date")
	if date == "today" {
		return models.Today()
	}
	return date
}

func (h *Handler) ListRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRoutines(h.Tracker.Routines()))
}

func (h *Handler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	var req routineRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	routine, err := h.Tracker.AddRoutine(r.Context(), req.input())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoutine(routine))
}

func (h *Handler) GetRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	routine, err := h.Tracker.Routine(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoutine(routine))
}

func (h *Handler) UpdateRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req routineRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	routine, err := h.Tracker.UpdateRoutine(r.Context(), id, req.input())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoutine(routine))
}

func (h *Handler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Tracker.DeleteRoutine(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAllRoutines(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.DeleteAllRoutines(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.Tracker.RestoreDefaults(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoutines(created))
}

// GetEntry responds with the entry, or JSON null when nothing was recorded.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	entry, err := h.Tracker.GetEntry(r.Context(), dateParam(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntry(entry))
}

func (h *Handler) AdjustCount(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req countRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	entry, err := h.Tracker.RecordCounterDelta(r.Context(), dateParam(r), id, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntry(entry))
}

func (h *Handler) SetDone(w http.ResponseWriter, r *http.Request) {
	id, err := routineID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req doneRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	entry, err := h.Tracker.RecordDone(r.Context(), dateParam(r), id, req.Done)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntry(entry))
}

func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := h.Tracker.Day(r.Context(), dateParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDay(*day))
}

func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	week, err := h.Tracker.Week(r.Context(), dateParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeek(week))
}

// Export streams a JSON backup document as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Tracker.ExportSnapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	name := backup.FileName(time.Now().Format(models.DateLayout), backup.FormatJSON)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := backup.Encode(w, snap, backup.FormatJSON); err != nil {
		h.Log.Error("write export", "err", err)
	}
}

// Import replaces all data with an uploaded JSON or YAML backup document.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: read body: %v", backup.ErrFormat, err))
		return
	}
	snap, err := backup.Decode(data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, err := h.Tracker.ImportSnapshot(r.Context(), snap)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.ClearAll(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
