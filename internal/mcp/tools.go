// ABOUTME: MCP tool implementations for the workout log.
// ABOUTME: Provides record CRUD with undo plus exercise management and group checks.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitlog/internal/events"
	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/scroll"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Log sets x reps at a weight for an exercise",
	}, s.handleAddRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List records newest first, optionally filtered by exercise",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_record",
		Description: "Change sets, reps, weight or date of a record",
	}, s.handleUpdateRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record; returns an undo token",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "undo_delete",
		Description: "Restore a deleted record from its undo token",
	}, s.handleUndoDelete)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List all exercises ordered by name",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Create a new exercise",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_exercise",
		Description: "Rename an exercise",
	}, s.handleRenameExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise and all of its records",
	}, s.handleDeleteExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "check_groups",
		Description: "Verify record grouping, optionally repairing it",
	}, s.handleCheckGroups)
}

// Tool input/output types

type addRecordInput struct {
	ExerciseID int64   `json:"exercise_id,omitempty" jsonschema:"Exercise ID (or give exercise)"`
	Exercise   string  `json:"exercise,omitempty" jsonschema:"Exercise name (case-insensitive)"`
	Sets       float64 `json:"sets" jsonschema:"Number of sets (a whole number)"`
	Reps       float64 `json:"reps" jsonschema:"Reps per set (a whole number)"`
	Weight     float64 `json:"weight" jsonschema:"Weight per rep"`
	Date       string  `json:"date,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type recordOutput struct {
	ID         int64   `json:"id"`
	ExerciseID int64   `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	Date       string  `json:"date"`
	GroupIndex int64   `json:"group_index"`
	Message    string  `json:"message,omitempty"`
}

type listRecordsInput struct {
	ExerciseIDs []int64 `json:"exercise_ids,omitempty" jsonschema:"Only records of these exercises"`
	Limit       int     `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
	Offset      int     `json:"offset,omitempty" jsonschema:"Skip this many records"`
}

type listRecordsOutput struct {
	Records []recordOutput `json:"records"`
	HasMore bool           `json:"has_more"`
}

type updateRecordInput struct {
	ID     int64    `json:"id" jsonschema:"Record ID"`
	Sets   *float64 `json:"sets,omitempty" jsonschema:"New number of sets"`
	Reps   *float64 `json:"reps,omitempty" jsonschema:"New reps per set"`
	Weight *float64 `json:"weight,omitempty" jsonschema:"New weight"`
	Date   string   `json:"date,omitempty" jsonschema:"New timestamp (ISO 8601)"`
}

type deleteRecordInput struct {
	ID int64 `json:"id" jsonschema:"Record ID"`
}

type deleteRecordOutput struct {
	UndoToken string `json:"undo_token"`
	Message   string `json:"message"`
}

type undoDeleteInput struct {
	UndoToken string `json:"undo_token" jsonschema:"Token returned by delete_record"`
}

type listExercisesInput struct{}

type exerciseInput struct {
	Name string `json:"name" jsonschema:"Exercise name"`
}

type renameExerciseInput struct {
	ID   int64  `json:"id" jsonschema:"Exercise ID"`
	Name string `json:"name" jsonschema:"New name"`
}

type exerciseIDInput struct {
	ID int64 `json:"id" jsonschema:"Exercise ID"`
}

type exerciseOutput struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}

type checkGroupsInput struct {
	Repair bool `json:"repair,omitempty" jsonschema:"Recompute all groups when violations are found"`
}

type checkGroupsOutput struct {
	Violations []groups.Violation `json:"violations"`
	Repaired   int                `json:"repaired,omitempty"`
	Message    string             `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

func toOutput(r *models.Record) recordOutput {
	return recordOutput{
		ID:         r.ID,
		ExerciseID: r.ExerciseID,
		Sets:       r.Sets,
		Reps:       r.Reps,
		Weight:     r.Weight,
		Date:       r.Time().Format(time.RFC3339),
		GroupIndex: r.GroupIndex,
	}
}

// parseDate accepts RFC 3339 or "YYYY-MM-DD HH:MM" in local time.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD HH:MM", s)
}

// resolveExercise finds an exercise by ID or case-insensitive name.
func (s *Server) resolveExercise(ctx context.Context, id int64, name string) (int64, error) {
	if id != 0 {
		return id, nil
	}
	if name == "" {
		return 0, errors.New("exercise_id or exercise is required")
	}
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	key := models.NameKey(name)
	for _, e := range exercises {
		if models.NameKey(e.Name) == key {
			return e.ID, nil
		}
	}
	return 0, fmt.Errorf("exercise not found: %s", name)
}

// Tool handlers

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	exerciseID, err := s.resolveExercise(ctx, input.ExerciseID, input.Exercise)
	if err != nil {
		return nil, recordOutput{}, err
	}

	v := s.maint.Validator()
	sets, err := v.Sets(input.Sets)
	if err != nil {
		return nil, recordOutput{}, err
	}
	reps, err := v.Reps(input.Reps)
	if err != nil {
		return nil, recordOutput{}, err
	}

	r := models.NewRecord(exerciseID, sets, reps, input.Weight)
	if input.Date != "" {
		t, err := parseDate(input.Date)
		if err != nil {
			return nil, recordOutput{}, err
		}
		r.WithDate(t)
	}

	if _, err := s.maint.Create(ctx, r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to create record: %w", err)
	}
	s.publish(ctx, events.ScrollToTop, r.ID)

	s.sessMu.Lock()
	if s.session != nil {
		s.session.stale = true
		if err := s.session.engine.PrependNewRecord(ctx, r.ID); err != nil {
			s.log.Debug("new record not cached", zap.Int64("id", r.ID), zap.Error(err))
		}
	}
	s.sessMu.Unlock()

	out := toOutput(r)
	out.Message = fmt.Sprintf("Added %dx%d @ %.2f (ID: %d)", r.Sets, r.Reps, r.Weight, r.ID)
	return nil, out, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, listRecordsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	sess := s.browse(models.NewFilter(input.ExerciseIDs...), input.Offset == 0)
	records, err := sess.engine.Window(ctx, input.Offset, input.Limit+1)
	if err != nil {
		return nil, listRecordsOutput{}, fmt.Errorf("failed to list records: %w", err)
	}

	out := listRecordsOutput{Records: []recordOutput{}}
	if len(records) > input.Limit {
		out.HasMore = true
		records = records[:input.Limit]
	}
	if sess.stale {
		if records, err = s.freshGroups(ctx, records); err != nil {
			return nil, listRecordsOutput{}, fmt.Errorf("failed to list records: %w", err)
		}
	}
	for _, r := range records {
		out.Records = append(out.Records, toOutput(r))
	}
	return nil, out, nil
}

func (s *Server) handleUpdateRecord(ctx context.Context, req *mcp.CallToolRequest, input updateRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	r, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, recordOutput{}, fmt.Errorf("record not found: %d", input.ID)
		}
		return nil, recordOutput{}, fmt.Errorf("failed to get record: %w", err)
	}

	v := s.maint.Validator()
	if input.Sets != nil {
		if r.Sets, err = v.Sets(*input.Sets); err != nil {
			return nil, recordOutput{}, err
		}
	}
	if input.Reps != nil {
		if r.Reps, err = v.Reps(*input.Reps); err != nil {
			return nil, recordOutput{}, err
		}
	}
	if input.Weight != nil {
		r.Weight = *input.Weight
	}
	if input.Date != "" {
		t, err := parseDate(input.Date)
		if err != nil {
			return nil, recordOutput{}, err
		}
		r.WithDate(t)
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	engine, release := s.writeEngine()
	defer release()
	if err := engine.UpdateRecord(ctx, r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to update record: %w", err)
	}

	out := toOutput(r)
	out.Message = fmt.Sprintf("Updated record %d", r.ID)
	return nil, out, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, deleteRecordOutput, error) {
	r, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, deleteRecordOutput{}, fmt.Errorf("record not found: %d", input.ID)
		}
		return nil, deleteRecordOutput{}, fmt.Errorf("failed to get record: %w", err)
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	engine, release := s.writeEngine()
	defer release()
	undo, err := engine.DeleteRecord(ctx, r)
	if err != nil {
		return nil, deleteRecordOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}
	s.publish(ctx, events.RecordDeleted, r.ID)

	token := s.rememberUndo(undo, s.sessionID())
	return nil, deleteRecordOutput{
		UndoToken: token,
		Message:   fmt.Sprintf("Deleted record %d", r.ID),
	}, nil
}

func (s *Server) handleUndoDelete(ctx context.Context, req *mcp.CallToolRequest, input undoDeleteInput) (*mcp.CallToolResult, recordOutput, error) {
	entry, ok := s.takeUndo(input.UndoToken)
	if !ok {
		return nil, recordOutput{}, fmt.Errorf("unknown or expired undo token: %s", input.UndoToken)
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	engine, release := s.writeEngine()
	defer release()

	undo := entry.ctx
	if entry.session != engine.SessionID() {
		// The cache slot belongs to a session that has since ended.
		undo = &scroll.UndoContext{Record: undo.Record, Origin: scroll.Origin{PageIndex: -1}}
	}
	restored, err := engine.UndoDelete(ctx, undo)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to restore record: %w", err)
	}

	out := toOutput(restored)
	out.Message = fmt.Sprintf("Restored record %d as %d", undo.Record.ID, restored.ID)
	return nil, out, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	if len(exercises) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}

	return nil, map[string]interface{}{"exercises": exercises}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	e, err := s.maint.CreateExercise(ctx, input.Name)
	if err != nil {
		return nil, exerciseOutput{}, err
	}

	return nil, exerciseOutput{
		ID:      e.ID,
		Name:    e.Name,
		Message: fmt.Sprintf("Added exercise %s (ID: %d)", e.Name, e.ID),
	}, nil
}

func (s *Server) handleRenameExercise(ctx context.Context, req *mcp.CallToolRequest, input renameExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	e, err := s.maint.RenameExercise(ctx, input.ID, input.Name)
	if err != nil {
		return nil, exerciseOutput{}, err
	}

	return nil, exerciseOutput{
		ID:      e.ID,
		Name:    e.Name,
		Message: fmt.Sprintf("Renamed exercise %d to %s", e.ID, e.Name),
	}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	removed, err := s.maint.DeleteExercise(ctx, input.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, simpleOutput{}, fmt.Errorf("exercise not found: %d", input.ID)
		}
		return nil, simpleOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}

	s.sessMu.Lock()
	if s.session != nil {
		s.session.stale = true
		ids, err := s.repo.ExerciseIDs(ctx)
		if err != nil {
			s.closeSession()
		} else {
			s.session.engine.RemoveOrphaned(ids)
		}
	}
	s.sessMu.Unlock()

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted exercise %d and %d records", input.ID, removed),
	}, nil
}

func (s *Server) handleCheckGroups(ctx context.Context, req *mcp.CallToolRequest, input checkGroupsInput) (*mcp.CallToolResult, checkGroupsOutput, error) {
	violations, err := s.maint.Verify(ctx)
	if err != nil {
		return nil, checkGroupsOutput{}, err
	}

	out := checkGroupsOutput{Violations: violations}
	if len(violations) == 0 {
		out.Violations = []groups.Violation{}
		out.Message = "All groups are consistent."
		return nil, out, nil
	}
	if !input.Repair {
		out.Message = fmt.Sprintf("Found %d violations.", len(violations))
		return nil, out, nil
	}

	changed, err := s.maint.Rebuild(ctx)
	if err != nil {
		return nil, checkGroupsOutput{}, fmt.Errorf("failed to rebuild groups: %w", err)
	}
	out.Repaired = changed

	s.sessMu.Lock()
	if s.session != nil {
		s.session.stale = true
	}
	s.sessMu.Unlock()
	out.Message = fmt.Sprintf("Found %d violations; reassigned %d records.", len(violations), changed)
	return nil, out, nil
}
