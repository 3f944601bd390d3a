// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets agents manage routines and record daily progress

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

func (s *Server) registerTools() {
	s.registerListRoutinesTool()
	s.registerAddRoutineTool()
	s.registerRemoveRoutineTool()
	s.registerRecordCountTool()
	s.registerRecordDoneTool()
	s.registerGetDayTool()
}

// RoutineOutput describes one routine.
type RoutineOutput struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Target int    `json:"target"`
	Icon   string `json:"icon,omitempty"`
}

func routineOutput(r *models.Routine) RoutineOutput {
	return RoutineOutput{
		ID:     r.ID,
		Name:   r.Name,
		Type:   string(r.Type),
		Target: r.Target,
		Icon:   r.Icon,
	}
}

// ProgressOutput describes a routine's state on one date.
type ProgressOutput struct {
	Date     string `json:"date"`
	Routine  string `json:"routine"`
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Target   int    `json:"target"`
	Done     bool   `json:"done"`
	Complete bool   `json:"complete"`
}

func progressOutput(date string, r *models.Routine, e *models.Entry) ProgressOutput {
	out := ProgressOutput{
		Date:     date,
		Routine:  r.Name,
		Type:     string(r.Type),
		Target:   r.Target,
		Complete: models.IsComplete(r, e),
	}
	if e != nil {
		out.Count = e.Count
		out.Done = e.IsDone
	}
	return out
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// resolveDate defaults an empty date to today and validates the rest.
func resolveDate(date string) (string, error) {
	if date == "" {
		return models.Today(), nil
	}
	if err := models.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// ListRoutinesInput is empty but required for type.
type ListRoutinesInput struct{}

// ListRoutinesOutput defines output for list_routines tool.
type ListRoutinesOutput struct {
	Routines []RoutineOutput `json:"routines"`
	Count    int             `json:"count"`
}

func (s *Server) listRoutines() ListRoutinesOutput {
	routines := s.tracker.Routines()
	out := ListRoutinesOutput{
		Routines: make([]RoutineOutput, len(routines)),
		Count:    len(routines),
	}
	for i, r := range routines {
		out.Routines[i] = routineOutput(r)
	}
	return out
}

func (s *Server) registerListRoutinesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_routines",
		Description: "List all tracked routines in creation order.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListRoutines)
}

func (s *Server) handleListRoutines(_ context.Context, req *mcp.CallToolRequest, input ListRoutinesInput) (*mcp.CallToolResult, ListRoutinesOutput, error) {
	output := s.listRoutines()
	return textResult(output), output, nil
}

// AddRoutineInput defines input for add_routine tool.
type AddRoutineInput struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Target int    `json:"target,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

func (s *Server) registerAddRoutineTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_routine",
		Description: "Create a routine. Counter routines count occurrences toward a daily target; done routines are checked off once a day.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique routine name (e.g., 'Water', 'Yoga')",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"counter", "done"},
					"description": "Routine type, defaults to 'counter'",
				},
				"target": map[string]interface{}{
					"type":        "integer",
					"description": "Daily target for counter routines",
				},
				"icon": map[string]interface{}{
					"type":        "string",
					"description": "Optional emoji shown next to the name",
				},
			},
			"required": []string{"name"},
		},
	}, s.handleAddRoutine)
}

func (s *Server) handleAddRoutine(ctx context.Context, req *mcp.CallToolRequest, input AddRoutineInput) (*mcp.CallToolResult, RoutineOutput, error) {
	r, err := s.tracker.AddRoutine(ctx, models.RoutineInput{
		Name:   input.Name,
		Type:   models.RoutineType(input.Type),
		Target: input.Target,
		Icon:   input.Icon,
	})
	if err != nil {
		return nil, RoutineOutput{}, fmt.Errorf("failed to add routine: %w", err)
	}

	output := routineOutput(r)
	return textResult(output), output, nil
}

// RemoveRoutineInput defines input for remove_routine tool.
type RemoveRoutineInput struct {
	Name string `json:"name"`
}

// RemoveRoutineOutput defines output for remove_routine tool.
type RemoveRoutineOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) registerRemoveRoutineTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_routine",
		Description: "Remove a routine and all its recorded history. This cannot be undone.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the routine to remove",
				},
			},
			"required": []string{"name"},
		},
	}, s.handleRemoveRoutine)
}

func (s *Server) handleRemoveRoutine(ctx context.Context, req *mcp.CallToolRequest, input RemoveRoutineInput) (*mcp.CallToolResult, RemoveRoutineOutput, error) {
	r, err := s.tracker.RoutineByName(input.Name)
	if err != nil {
		return nil, RemoveRoutineOutput{}, fmt.Errorf("routine '%s' not found", input.Name)
	}

	if err := s.tracker.DeleteRoutine(ctx, r.ID); err != nil {
		return nil, RemoveRoutineOutput{}, fmt.Errorf("failed to remove routine: %w", err)
	}

	output := RemoveRoutineOutput{
		Success: true,
		Message: fmt.Sprintf("Removed '%s' and all its history", r.Name),
	}
	return textResult(output), output, nil
}

// RecordCountInput defines input for record_count tool.
type RecordCountInput struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
	Date  string `json:"date,omitempty"`
}

func (s *Server) registerRecordCountTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "record_count",
		Description: "Add to (or subtract from) a counter routine's count for a day. Counts never drop below zero.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name of a counter routine",
				},
				"delta": map[string]interface{}{
					"type":        "integer",
					"description": "Amount to add; negative to subtract",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Optional date in YYYY-MM-DD format, defaults to today",
				},
			},
			"required": []string{"name", "delta"},
		},
	}, s.handleRecordCount)
}

func (s *Server) handleRecordCount(ctx context.Context, req *mcp.CallToolRequest, input RecordCountInput) (*mcp.CallToolResult, ProgressOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, ProgressOutput{}, err
	}
	r, err := s.tracker.RoutineByName(input.Name)
	if err != nil {
		return nil, ProgressOutput{}, fmt.Errorf("routine '%s' not found", input.Name)
	}

	e, err := s.tracker.RecordCounterDelta(ctx, date, r.ID, input.Delta)
	if err != nil {
		return nil, ProgressOutput{}, err
	}

	output := progressOutput(date, r, e)
	return textResult(output), output, nil
}

// RecordDoneInput defines input for record_done tool.
type RecordDoneInput struct {
	Name string `json:"name"`
	Done *bool  `json:"done,omitempty"`
	Date string `json:"date,omitempty"`
}

func (s *Server) registerRecordDoneTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "record_done",
		Description: "Mark a done routine as done (or not done) for a day.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name of a done routine",
				},
				"done": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the routine was done, defaults to true",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Optional date in YYYY-MM-DD format, defaults to today",
				},
			},
			"required": []string{"name"},
		},
	}, s.handleRecordDone)
}

func (s *Server) handleRecordDone(ctx context.Context, req *mcp.CallToolRequest, input RecordDoneInput) (*mcp.CallToolResult, ProgressOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, ProgressOutput{}, err
	}
	r, err := s.tracker.RoutineByName(input.Name)
	if err != nil {
		return nil, ProgressOutput{}, fmt.Errorf("routine '%s' not found", input.Name)
	}

	done := true
	if input.Done != nil {
		done = *input.Done
	}
	e, err := s.tracker.RecordDone(ctx, date, r.ID, done)
	if err != nil {
		return nil, ProgressOutput{}, err
	}

	output := progressOutput(date, r, e)
	return textResult(output), output, nil
}

// GetDayInput defines input for get_day tool.
type GetDayInput struct {
	Date string `json:"date,omitempty"`
}

// DayOutput defines output for get_day tool.
type DayOutput struct {
	Date      string           `json:"date"`
	Progress  []ProgressOutput `json:"progress"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
}

func dayOutput(day *tracker.DayView) DayOutput {
	out := DayOutput{
		Date:      day.Date,
		Progress:  make([]ProgressOutput, len(day.Progress)),
		Completed: day.Completed,
		Total:     day.Total,
	}
	for i, p := range day.Progress {
		out.Progress[i] = progressOutput(day.Date, p.Routine, p.Entry)
	}
	return out
}

func (s *Server) registerGetDayTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_day",
		Description: "Get every routine's progress for a day.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Optional date in YYYY-MM-DD format, defaults to today",
				},
			},
		},
	}, s.handleGetDay)
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input GetDayInput) (*mcp.CallToolResult, DayOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, DayOutput{}, err
	}

	day, err := s.tracker.Day(ctx, date)
	if err != nil {
		return nil, DayOutput{}, fmt.Errorf("failed to get day: %w", err)
	}

	output := dayOutput(day)
	return textResult(output), output, nil
}
