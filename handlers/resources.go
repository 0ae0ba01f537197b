// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to deals, companies, contacts, stages, and the pipeline via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// StageEntry is one row of the stage table resource.
type StageEntry struct {
	Stage       string `json:"stage"`
	Probability int    `json:"probabilityPct"`
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")

	switch parts[0] {
	case "deals":
		if len(parts) == 1 {
			deals, err := db.FindDeals(h.db, db.DealFilter{})
			if err != nil {
				return nil, fmt.Errorf("failed to fetch deals: %w", err)
			}
			return jsonResource(uri, deals)
		}
		deal, err := db.GetDeal(h.db, parts[1])
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, deal)

	case "companies":
		if len(parts) == 1 {
			companies, err := db.FindCompanies(h.db, "", 1000)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch companies: %w", err)
			}
			return jsonResource(uri, companies)
		}
		company, err := db.GetCompany(h.db, parts[1])
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, company)

	case "contacts":
		if len(parts) == 1 {
			contacts, err := db.FindContacts(h.db, "", "", 1000)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch contacts: %w", err)
			}
			return jsonResource(uri, contacts)
		}
		contact, err := db.GetContact(h.db, parts[1])
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, contact)

	case "stages":
		stages := make([]StageEntry, 0, len(models.Stages()))
		for _, s := range models.Stages() {
			stages = append(stages, StageEntry{Stage: s, Probability: models.ProbabilityForStage(s)})
		}
		return jsonResource(uri, stages)

	case "pipeline":
		stats, err := viz.GeneratePipelineStats(h.db)
		if err != nil {
			return nil, fmt.Errorf("failed to build pipeline: %w", err)
		}
		return jsonResource(uri, summaryToOutput(stats))

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
