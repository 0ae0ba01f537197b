// ABOUTME: Tests for MCP tool and resource handlers
// ABOUTME: Calls handlers directly against a temp SQLite database
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func validDealInput() CreateDealInput {
	return CreateDealInput{
		Name:        "Project Atlas",
		MandateType: "Sell",
		Sector:      "Software",
		EVMin:       1_000_000,
		EVMax:       5_000_000,
		Stage:       "Info Shared",
	}
}

func TestCreateDeal(t *testing.T) {
	database := setupTestDB(t)
	handler := NewDealHandlers(database)

	_, out, err := handler.CreateDeal(context.Background(), nil, validDealInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 40, out.ProbabilityPct, "probability derived from stage")
	assert.Equal(t, "1200000", out.WeightedEV)

	stored, err := db.GetDeal(database, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "Project Atlas", stored.Name)
}

func TestCreateDealDefaultsToNewLead(t *testing.T) {
	handler := NewDealHandlers(setupTestDB(t))

	input := validDealInput()
	input.Stage = ""
	_, out, err := handler.CreateDeal(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, "New Lead", out.Stage)
	assert.Equal(t, 5, out.ProbabilityPct)
}

func TestCreateDealRejectsMismatch(t *testing.T) {
	database := setupTestDB(t)
	handler := NewDealHandlers(database)

	input := validDealInput()
	wrong := 50
	input.ProbabilityPct = &wrong
	input.EVMax = 10

	_, _, err := handler.CreateDeal(context.Background(), nil, input)
	verr, ok := schema.AsValidationError(err)
	require.True(t, ok, "validation error should survive wrapping")
	assert.True(t, verr.Has("evMax"))
	assert.True(t, verr.Has("probabilityPct"))

	deals, err := db.FindDeals(database, db.DealFilter{})
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestMoveDealStage(t *testing.T) {
	handler := NewDealHandlers(setupTestDB(t))

	_, created, err := handler.CreateDeal(context.Background(), nil, validDealInput())
	require.NoError(t, err)

	_, moved, err := handler.MoveDealStage(context.Background(), nil, MoveDealStageInput{DealID: created.ID, Stage: "Negotiation"})
	require.NoError(t, err)
	assert.Equal(t, 70, moved.ProbabilityPct)

	_, _, err = handler.MoveDealStage(context.Background(), nil, MoveDealStageInput{DealID: created.ID, Stage: "Due Diligence"})
	assert.Error(t, err)

	_, _, err = handler.MoveDealStage(context.Background(), nil, MoveDealStageInput{Stage: "Negotiation"})
	assert.Error(t, err)
}

func TestFindDeals(t *testing.T) {
	handler := NewDealHandlers(setupTestDB(t))

	_, _, err := handler.CreateDeal(context.Background(), nil, validDealInput())
	require.NoError(t, err)
	buy := validDealInput()
	buy.Name = "Project Borealis"
	buy.MandateType = "Buy"
	_, _, err = handler.CreateDeal(context.Background(), nil, buy)
	require.NoError(t, err)

	_, out, err := handler.FindDeals(context.Background(), nil, FindDealsInput{MandateType: "Buy"})
	require.NoError(t, err)
	require.Len(t, out.Deals, 1)
	assert.Equal(t, "Project Borealis", out.Deals[0].Name)

	_, none, err := handler.FindDeals(context.Background(), nil, FindDealsInput{Stage: "Negotiation"})
	require.NoError(t, err)
	assert.NotNil(t, none.Deals)
	assert.Empty(t, none.Deals)
}

func TestValidateRecord(t *testing.T) {
	handler := NewValidateHandlers(nil)

	record := map[string]any{
		"id":             "deal-1",
		"name":           "Project Atlas",
		"mandateType":    "Sell",
		"sector":         "Software",
		"evMin":          float64(1_000_000),
		"evMax":          float64(5_000_000),
		"stage":          "Negotiation",
		"probabilityPct": float64(50),
	}

	_, out, err := handler.ValidateRecord(context.Background(), nil, ValidateRecordInput{Kind: "deal", Record: record})
	require.NoError(t, err, "a failing record is reported, not raised")
	assert.False(t, out.Valid)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "probabilityPct", out.Issues[0].Path)
	assert.Equal(t, "probability_stage", out.Issues[0].Code)

	record["probabilityPct"] = float64(70)
	_, out, err = handler.ValidateRecord(context.Background(), nil, ValidateRecordInput{Kind: "deal", Record: record})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Issues)

	_, _, err = handler.ValidateRecord(context.Background(), nil, ValidateRecordInput{Kind: "invoice", Record: record})
	assert.Error(t, err)
}

func TestValidateRecordUsesGivenValidator(t *testing.T) {
	handler := NewValidateHandlers(schema.New(schema.WithLocale("en")))

	_, out, err := handler.ValidateRecord(context.Background(), nil, ValidateRecordInput{
		Kind:   "contact",
		Record: map[string]any{"id": "c1", "name": "Ana", "email": "nope"},
	})
	require.NoError(t, err)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "email", out.Issues[0].Path)
}

func TestAddCompanyContactAndActivity(t *testing.T) {
	database := setupTestDB(t)

	ebitda := 2_500_000.0
	_, company, err := NewCompanyHandlers(database).AddCompany(context.Background(), nil, AddCompanyInput{
		Name: "Acme Holdings", Sector: "Industrial", Country: "ES", EbitdaLTM: &ebitda,
	})
	require.NoError(t, err)
	assert.Equal(t, "2500000", company.EbitdaLTM)

	influence := 3
	contacts := NewContactHandlers(database)
	_, contact, err := contacts.AddContact(context.Background(), nil, AddContactInput{
		Name: "Ana García", Email: "ana@acme.example.com", CompanyID: company.ID, Influence: &influence,
	})
	require.NoError(t, err)
	assert.Equal(t, company.ID, contact.CompanyID)

	_, _, err = contacts.AddContact(context.Background(), nil, AddContactInput{
		Name: "Bruno Díaz", Email: "bruno@example.com", CompanyID: "missing",
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, found, err := contacts.FindContacts(context.Background(), nil, FindContactsInput{CompanyID: company.ID})
	require.NoError(t, err)
	assert.Len(t, found.Contacts, 1)

	activities := NewActivityHandlers(database)
	_, activity, err := activities.LogActivity(context.Background(), nil, LogActivityInput{
		Title: "Intro call", Type: "call", ContactID: contact.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, activity.ID)

	_, listed, err := activities.ListActivities(context.Background(), nil, ListActivitiesInput{ContactID: contact.ID})
	require.NoError(t, err)
	require.Len(t, listed.Activities, 1)
	assert.Equal(t, "Intro call", listed.Activities[0].Title)

	_, _, err = activities.LogActivity(context.Background(), nil, LogActivityInput{Title: "Lunch", Type: "lunch"})
	assert.Error(t, err)
}

func TestPipelineSummary(t *testing.T) {
	database := setupTestDB(t)
	_, _, err := NewDealHandlers(database).CreateDeal(context.Background(), nil, validDealInput())
	require.NoError(t, err)

	_, out, err := NewVizHandlers(database).PipelineSummary(context.Background(), nil, PipelineSummaryInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalDeals)
	assert.Equal(t, "1200000", out.WeightedEV)
	require.Len(t, out.Stages, 8)
	assert.Equal(t, "New Lead", out.Stages[0].Stage)
	assert.Equal(t, 1, out.Stages[4].Count)
}

func TestGenerateGraphRejectsUnknownStage(t *testing.T) {
	_, _, err := NewVizHandlers(setupTestDB(t)).GenerateGraph(context.Background(), nil, GenerateGraphInput{Stage: "Parked"})
	assert.Error(t, err)
}

func readResource(t *testing.T, h *ResourceHandlers, uri string) string {
	t.Helper()
	result, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, uri, result.Contents[0].URI)
	return result.Contents[0].Text
}

func TestReadResource(t *testing.T) {
	database := setupTestDB(t)
	_, deal, err := NewDealHandlers(database).CreateDeal(context.Background(), nil, validDealInput())
	require.NoError(t, err)

	h := NewResourceHandlers(database)

	var stages []StageEntry
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "crm://stages")), &stages))
	require.Len(t, stages, 8)
	assert.Equal(t, StageEntry{Stage: "Negotiation", Probability: 70}, stages[5])

	var one map[string]any
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "crm://deals/"+deal.ID)), &one))
	assert.Equal(t, "Project Atlas", one["name"])
	assert.Equal(t, float64(1_000_000), one["evMin"])

	assert.Contains(t, readResource(t, h, "crm://pipeline"), "weighted_ev")

	_, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://invoices"}})
	assert.Error(t, err)
	_, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "http://deals"}})
	assert.Error(t, err)
	_, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://deals/missing"}})
	assert.ErrorIs(t, err, db.ErrNotFound)
}
