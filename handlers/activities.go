// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements log_activity and list_activities tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ActivityHandlers struct {
	db *sql.DB
}

func NewActivityHandlers(database *sql.DB) *ActivityHandlers {
	return &ActivityHandlers{db: database}
}

type LogActivityInput struct {
	Title       string `json:"title" jsonschema:"Short title (required)"`
	Type        string `json:"type" jsonschema:"Activity type: call, email, or meeting"`
	Description string `json:"description,omitempty" jsonschema:"What happened"`
	Result      string `json:"result,omitempty" jsonschema:"Outcome of the activity"`
	NextStep    string `json:"next_step,omitempty" jsonschema:"Agreed next step"`
	DueDate     string `json:"due_date,omitempty" jsonschema:"Due date for the next step (YYYY-MM-DD)"`
	DealID      string `json:"deal_id,omitempty" jsonschema:"Related deal ID"`
	ContactID   string `json:"contact_id,omitempty" jsonschema:"Related contact ID"`
}

type ActivityOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Result      string `json:"result,omitempty"`
	NextStep    string `json:"next_step,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DealID      string `json:"deal_id,omitempty"`
	ContactID   string `json:"contact_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (h *ActivityHandlers) LogActivity(_ context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if input.DealID != "" {
		if _, err := db.GetDeal(h.db, input.DealID); err != nil {
			return nil, ActivityOutput{}, fmt.Errorf("failed to find deal: %w", err)
		}
	}

	activity := &models.Activity{
		Title:       input.Title,
		Type:        input.Type,
		Description: input.Description,
		Result:      input.Result,
		NextStep:    input.NextStep,
		DueDate:     input.DueDate,
		DealID:      input.DealID,
		ContactID:   input.ContactID,
	}

	if err := db.CreateActivity(h.db, activity); err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityToOutput(activity), nil
}

type ListActivitiesInput struct {
	DealID    string `json:"deal_id,omitempty" jsonschema:"Only activities for this deal"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Only activities for this contact"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum results (default 20)"`
}

type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
}

func (h *ActivityHandlers) ListActivities(_ context.Context, request *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	activities, err := db.ListActivities(h.db, input.DealID, input.ContactID, input.Limit)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}

	out := ListActivitiesOutput{Activities: make([]ActivityOutput, 0, len(activities))}
	for i := range activities {
		out.Activities = append(out.Activities, activityToOutput(&activities[i]))
	}
	return nil, out, nil
}

func activityToOutput(a *models.Activity) ActivityOutput {
	return ActivityOutput{
		ID:          a.ID,
		Title:       a.Title,
		Type:        a.Type,
		Description: a.Description,
		Result:      a.Result,
		NextStep:    a.NextStep,
		DueDate:     a.DueDate,
		DealID:      a.DealID,
		ContactID:   a.ContactID,
		CreatedAt:   a.CreatedAt,
	}
}
