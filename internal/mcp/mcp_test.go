// ABOUTME: Tests for MCP server, tools, and resources
// ABOUTME: Runs handlers against a tracker backed by a temporary SQLite store

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/storage"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	db, err := storage.NewSQLiteDB(filepath.Join(t.TempDir(), "mcp.db"))
	if err != nil {
		t.Fatalf("NewSQLiteDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestServer(t *testing.T, store storage.Store) (*Server, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New(store, nil)
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	server, err := NewServer(tr, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, tr
}

func addRoutine(t *testing.T, server *Server, input AddRoutineInput) RoutineOutput {
	t.Helper()
	_, out, err := server.handleAddRoutine(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAddRoutine failed: %v", err)
	}
	return out
}

// failingStore fails entry reads so view handlers surface store errors.
type failingStore struct {
	storage.Store
}

func (f *failingStore) GetEntriesInRange(ctx context.Context, from, to string) ([]*models.Entry, error) {
	return nil, &storage.StorageError{Op: "get entries", Err: errors.New("database error")}
}

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	if server.tracker == nil {
		t.Error("expected non-nil tracker")
	}
	if server.mcp == nil {
		t.Error("expected non-nil mcp server")
	}
}

func TestNewServer_NilTracker(t *testing.T) {
	_, err := NewServer(nil, nil)
	if err == nil {
		t.Error("expected error for nil tracker")
	}
}

func TestHandleAddRoutine(t *testing.T) {
	server, tr := newTestServer(t, newTestStore(t))

	result, output, err := server.handleAddRoutine(context.Background(), nil, AddRoutineInput{
		Name:   "Water",
		Type:   "counter",
		Target: 7,
		Icon:   "💧",
	})
	if err != nil {
		t.Fatalf("handleAddRoutine failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if output.Name != "Water" || output.Target != 7 || output.Type != "counter" {
		t.Errorf("unexpected output %+v", output)
	}
	if output.ID == 0 {
		t.Error("expected an assigned id")
	}
	if len(tr.Routines()) != 1 {
		t.Errorf("expected 1 routine, got %d", len(tr.Routines()))
	}
}

func TestHandleAddRoutine_DefaultsToCounter(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	out := addRoutine(t, server, AddRoutineInput{Name: "Steps", Target: 3})
	if out.Type != "counter" {
		t.Errorf("expected counter type, got %q", out.Type)
	}
}

func TestHandleAddRoutine_Invalid(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 7})

	tests := []struct {
		name  string
		input AddRoutineInput
		want  error
	}{
		{"empty_name", AddRoutineInput{Name: "  "}, models.ErrValidation},
		{"bad_type", AddRoutineInput{Name: "Yoga", Type: "weekly"}, models.ErrValidation},
		{"duplicate", AddRoutineInput{Name: "Water", Target: 2}, storage.ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleAddRoutine(context.Background(), nil, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestHandleListRoutines(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 7})
	addRoutine(t, server, AddRoutineInput{Name: "Yoga", Type: "done"})

	result, output, err := server.handleListRoutines(context.Background(), nil, ListRoutinesInput{})
	if err != nil {
		t.Fatalf("handleListRoutines failed: %v", err)
	}
	if output.Count != 2 {
		t.Fatalf("expected 2 routines, got %d", output.Count)
	}
	if output.Routines[0].Name != "Water" || output.Routines[1].Name != "Yoga" {
		t.Errorf("expected creation order, got %+v", output.Routines)
	}

	text := result.Content[0].(*mcpsdk.TextContent).Text
	if !strings.Contains(text, `"Yoga"`) {
		t.Errorf("expected text content to include Yoga, got %s", text)
	}
}

func TestHandleListRoutines_Empty(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	_, output, err := server.handleListRoutines(context.Background(), nil, ListRoutinesInput{})
	if err != nil {
		t.Fatalf("handleListRoutines failed: %v", err)
	}
	if output.Count != 0 || output.Routines == nil {
		t.Errorf("expected empty non-nil list, got %+v", output)
	}
}

func TestHandleRemoveRoutine(t *testing.T) {
	server, tr := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 7})

	_, output, err := server.handleRemoveRoutine(context.Background(), nil, RemoveRoutineInput{Name: "Water"})
	if err != nil {
		t.Fatalf("handleRemoveRoutine failed: %v", err)
	}
	if !output.Success {
		t.Error("expected success")
	}
	if len(tr.Routines()) != 0 {
		t.Errorf("expected no routines, got %d", len(tr.Routines()))
	}
}

func TestHandleRemoveRoutine_NotFound(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	_, _, err := server.handleRemoveRoutine(context.Background(), nil, RemoveRoutineInput{Name: "ghost"})
	if err == nil {
		t.Error("expected error for unknown routine")
	}
}

func TestHandleRecordCount(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 2})

	var output ProgressOutput
	for i := 0; i < 2; i++ {
		var err error
		_, output, err = server.handleRecordCount(context.Background(), nil, RecordCountInput{Name: "Water", Delta: 1, Date: "2024-01-01"})
		if err != nil {
			t.Fatalf("handleRecordCount failed: %v", err)
		}
	}
	if output.Count != 2 || !output.Complete {
		t.Errorf("expected count 2 and complete, got %+v", output)
	}

	_, output, err := server.handleRecordCount(context.Background(), nil, RecordCountInput{Name: "Water", Delta: -5, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("handleRecordCount failed: %v", err)
	}
	if output.Count != 0 {
		t.Errorf("expected count clamped to 0, got %d", output.Count)
	}
}

func TestHandleRecordCount_DefaultsToToday(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 2})

	_, output, err := server.handleRecordCount(context.Background(), nil, RecordCountInput{Name: "Water", Delta: 1})
	if err != nil {
		t.Fatalf("handleRecordCount failed: %v", err)
	}
	if output.Date != models.Today() {
		t.Errorf("expected today, got %s", output.Date)
	}
}

func TestHandleRecordCount_Errors(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Yoga", Type: "done"})

	tests := []struct {
		name  string
		input RecordCountInput
	}{
		{"unknown_routine", RecordCountInput{Name: "ghost", Delta: 1}},
		{"done_routine", RecordCountInput{Name: "Yoga", Delta: 1}},
		{"bad_date", RecordCountInput{Name: "Yoga", Delta: 1, Date: "01/02/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleRecordCount(context.Background(), nil, tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleRecordDone(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Yoga", Type: "done"})

	_, output, err := server.handleRecordDone(context.Background(), nil, RecordDoneInput{Name: "Yoga", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("handleRecordDone failed: %v", err)
	}
	if !output.Done || !output.Complete {
		t.Errorf("expected done by default, got %+v", output)
	}

	undo := false
	_, output, err = server.handleRecordDone(context.Background(), nil, RecordDoneInput{Name: "Yoga", Done: &undo, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("handleRecordDone failed: %v", err)
	}
	if output.Done || output.Complete {
		t.Errorf("expected not done, got %+v", output)
	}
}

func TestHandleRecordDone_CounterRoutine(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 7})

	_, _, err := server.handleRecordDone(context.Background(), nil, RecordDoneInput{Name: "Water"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestHandleGetDay(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 1})
	addRoutine(t, server, AddRoutineInput{Name: "Yoga", Type: "done"})
	if _, _, err := server.handleRecordCount(context.Background(), nil, RecordCountInput{Name: "Water", Delta: 1, Date: "2024-01-03"}); err != nil {
		t.Fatalf("handleRecordCount failed: %v", err)
	}

	_, output, err := server.handleGetDay(context.Background(), nil, GetDayInput{Date: "2024-01-03"})
	if err != nil {
		t.Fatalf("handleGetDay failed: %v", err)
	}
	if output.Completed != 1 || output.Total != 2 {
		t.Errorf("expected 1/2 complete, got %d/%d", output.Completed, output.Total)
	}
	if len(output.Progress) != 2 || output.Progress[0].Count != 1 || output.Progress[1].Done {
		t.Errorf("unexpected progress %+v", output.Progress)
	}
}

func TestHandleGetDay_StoreError(t *testing.T) {
	server, _ := newTestServer(t, &failingStore{Store: newTestStore(t)})
	_, _, err := server.handleGetDay(context.Background(), nil, GetDayInput{})
	if err == nil {
		t.Error("expected error when entries cannot be read")
	}
}

func TestHandleRoutinesResource(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Water", Target: 7})

	result, err := server.handleRoutinesResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleRoutinesResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != "routine://routines" {
		t.Errorf("expected URI 'routine://routines', got %q", content.URI)
	}
	if content.MIMEType != "application/json" {
		t.Errorf("expected MIME type 'application/json', got %q", content.MIMEType)
	}

	var decoded ListRoutinesOutput
	if err := json.Unmarshal([]byte(content.Text), &decoded); err != nil {
		t.Fatalf("resource text is not JSON: %v", err)
	}
	if decoded.Count != 1 || decoded.Routines[0].Name != "Water" {
		t.Errorf("unexpected resource body %+v", decoded)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server, _ := newTestServer(t, newTestStore(t))
	addRoutine(t, server, AddRoutineInput{Name: "Yoga", Type: "done"})

	result, err := server.handleTodayResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	var decoded DayOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
		t.Fatalf("resource text is not JSON: %v", err)
	}
	if decoded.Date != models.Today() || decoded.Total != 1 {
		t.Errorf("unexpected today body %+v", decoded)
	}
}

func TestHandleTodayResource_Error(t *testing.T) {
	server, _ := newTestServer(t, &failingStore{Store: newTestStore(t)})
	if _, err := server.handleTodayResource(context.Background(), nil); err == nil {
		t.Error("expected error when entries cannot be read")
	}
}
