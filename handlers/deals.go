// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, move_deal_stage, and find_deals tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type DealHandlers struct {
	db *sql.DB
}

func NewDealHandlers(database *sql.DB) *DealHandlers {
	return &DealHandlers{db: database}
}

type CreateDealInput struct {
	Name            string  `json:"name" jsonschema:"Deal or project name (required, at least 2 characters)"`
	MandateType     string  `json:"mandate_type" jsonschema:"Mandate type: Sell or Buy"`
	Sector          string  `json:"sector" jsonschema:"Target sector (required)"`
	EVMin           float64 `json:"ev_min" jsonschema:"Lower bound of the enterprise value range"`
	EVMax           float64 `json:"ev_max" jsonschema:"Upper bound of the enterprise value range, at least ev_min"`
	Stage           string  `json:"stage,omitempty" jsonschema:"Pipeline stage (default New Lead)"`
	ProbabilityPct  *int    `json:"probability_pct,omitempty" jsonschema:"Close probability; must match the stage, derived from it when omitted"`
	FeeModel        string  `json:"fee_model,omitempty" jsonschema:"Fee model: percentage or fixed"`
	CloseTargetDate string  `json:"close_target_date,omitempty" jsonschema:"Target close date (YYYY-MM-DD)"`
	CompanyID       string  `json:"company_id,omitempty" jsonschema:"ID of the target company"`
	ContactID       string  `json:"contact_id,omitempty" jsonschema:"ID of the main contact"`
}

type DealOutput struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MandateType     string `json:"mandate_type"`
	Sector          string `json:"sector"`
	EVMin           string `json:"ev_min"`
	EVMax           string `json:"ev_max"`
	WeightedEV      string `json:"weighted_ev"`
	Stage           string `json:"stage"`
	ProbabilityPct  int    `json:"probability_pct"`
	FeeModel        string `json:"fee_model,omitempty"`
	CloseTargetDate string `json:"close_target_date,omitempty"`
	CompanyID       string `json:"company_id,omitempty"`
	ContactID       string `json:"contact_id,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func (h *DealHandlers) CreateDeal(_ context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	stage := input.Stage
	if stage == "" {
		stage = models.StageNewLead
	}

	deal := &models.Deal{
		Name:            input.Name,
		MandateType:     input.MandateType,
		Sector:          input.Sector,
		EVMin:           models.Amount{Decimal: decimal.NewFromFloat(input.EVMin)},
		EVMax:           models.Amount{Decimal: decimal.NewFromFloat(input.EVMax)},
		FeeModel:        input.FeeModel,
		CloseTargetDate: input.CloseTargetDate,
		CompanyID:       input.CompanyID,
		ContactID:       input.ContactID,
	}
	deal.SetStage(stage)
	if input.ProbabilityPct != nil {
		deal.ProbabilityPct = *input.ProbabilityPct
	}

	if err := db.CreateDeal(h.db, deal); err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	log.Info().Str("entity", models.KindDeal).Str("id", deal.ID).Str("stage", deal.Stage).Msg("deal created")
	return nil, dealToOutput(deal), nil
}

type MoveDealStageInput struct {
	DealID string `json:"deal_id" jsonschema:"ID of the deal to move (required)"`
	Stage  string `json:"stage" jsonschema:"New pipeline stage; probability is updated to match"`
}

func (h *DealHandlers) MoveDealStage(_ context.Context, request *mcp.CallToolRequest, input MoveDealStageInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID == "" {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}

	deal, err := db.MoveDealStage(h.db, input.DealID, input.Stage)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}

	log.Info().Str("entity", models.KindDeal).Str("id", deal.ID).Str("stage", deal.Stage).Msg("deal moved")
	return nil, dealToOutput(deal), nil
}

type FindDealsInput struct {
	Stage       string `json:"stage,omitempty" jsonschema:"Only deals in this stage"`
	MandateType string `json:"mandate_type,omitempty" jsonschema:"Only Sell or Buy mandates"`
	CompanyID   string `json:"company_id,omitempty" jsonschema:"Only deals for this company"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindDealsOutput struct {
	Deals []DealOutput `json:"deals"`
}

func (h *DealHandlers) FindDeals(_ context.Context, request *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	deals, err := db.FindDeals(h.db, db.DealFilter{
		Stage:       input.Stage,
		MandateType: input.MandateType,
		CompanyID:   input.CompanyID,
		Limit:       limit,
	})
	if err != nil {
		return nil, FindDealsOutput{}, fmt.Errorf("failed to find deals: %w", err)
	}

	out := FindDealsOutput{Deals: make([]DealOutput, 0, len(deals))}
	for i := range deals {
		out.Deals = append(out.Deals, dealToOutput(&deals[i]))
	}
	return nil, out, nil
}

func dealToOutput(deal *models.Deal) DealOutput {
	return DealOutput{
		ID:              deal.ID,
		Name:            deal.Name,
		MandateType:     deal.MandateType,
		Sector:          deal.Sector,
		EVMin:           deal.EVMin.String(),
		EVMax:           deal.EVMax.String(),
		WeightedEV:      deal.WeightedEV().String(),
		Stage:           deal.Stage,
		ProbabilityPct:  deal.ProbabilityPct,
		FeeModel:        deal.FeeModel,
		CloseTargetDate: deal.CloseTargetDate,
		CompanyID:       deal.CompanyID,
		ContactID:       deal.ContactID,
		CreatedAt:       deal.CreatedAt,
		UpdatedAt:       deal.UpdatedAt,
	}
}
