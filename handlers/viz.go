// ABOUTME: Pipeline summary and graph MCP handlers
// ABOUTME: Exposes per-stage pipeline stats and GraphViz DOT to agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type PipelineSummaryInput struct{}

type StageSummary struct {
	Stage       string `json:"stage"`
	Probability int    `json:"probability_pct"`
	Count       int    `json:"count"`
	EVMin       string `json:"ev_min"`
	EVMax       string `json:"ev_max"`
	WeightedEV  string `json:"weighted_ev"`
}

type PipelineSummaryOutput struct {
	Stages     []StageSummary `json:"stages"`
	TotalDeals int            `json:"total_deals"`
	EVMin      string         `json:"ev_min"`
	EVMax      string         `json:"ev_max"`
	WeightedEV string         `json:"weighted_ev"`
	StaleDeals []string       `json:"stale_deals"`
}

func (h *VizHandlers) PipelineSummary(_ context.Context, request *mcp.CallToolRequest, input PipelineSummaryInput) (*mcp.CallToolResult, PipelineSummaryOutput, error) {
	stats, err := viz.GeneratePipelineStats(h.db)
	if err != nil {
		return nil, PipelineSummaryOutput{}, fmt.Errorf("failed to build pipeline summary: %w", err)
	}
	return nil, summaryToOutput(stats), nil
}

func summaryToOutput(stats *viz.PipelineStats) PipelineSummaryOutput {
	out := PipelineSummaryOutput{
		Stages:     make([]StageSummary, 0, len(stats.Stages)),
		TotalDeals: stats.TotalDeals,
		EVMin:      stats.EVMin.String(),
		EVMax:      stats.EVMax.String(),
		WeightedEV: stats.WeightedEV.String(),
		StaleDeals: make([]string, 0, len(stats.StaleDeals)),
	}
	for _, s := range stats.Stages {
		out.Stages = append(out.Stages, StageSummary{
			Stage:       s.Stage,
			Probability: s.Probability,
			Count:       s.Count,
			EVMin:       s.EVMin.String(),
			EVMax:       s.EVMax.String(),
			WeightedEV:  s.WeightedEV.String(),
		})
	}
	for _, d := range stats.StaleDeals {
		out.StaleDeals = append(out.StaleDeals, d.ID)
	}
	return out
}

type GenerateGraphInput struct {
	Stage string `json:"stage,omitempty" jsonschema:"Only draw deals in this stage"`
}

type GenerateGraphOutput struct {
	DOTSource string `json:"dot_source"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Stage != "" && !models.IsKnownStage(input.Stage) {
		return nil, GenerateGraphOutput{}, fmt.Errorf("invalid stage: %s (valid: %s)", input.Stage, strings.Join(models.Stages(), ", "))
	}

	dot, err := viz.NewGraphGenerator(h.db).GeneratePipelineGraph(ctx, input.Stage)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}
	return nil, GenerateGraphOutput{DOTSource: dot}, nil
}
