// ABOUTME: MCP server subcommand
// ABOUTME: Registers deal tools and CRM resources and serves them over stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/harperreed/mandato/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// NewMCPServer builds the server with every tool and resource registered.
func NewMCPServer(db *sql.DB, version string) *mcp.Server {
	validateHandlers := handlers.NewValidateHandlers(nil)
	dealHandlers := handlers.NewDealHandlers(db)
	companyHandlers := handlers.NewCompanyHandlers(db)
	contactHandlers := handlers.NewContactHandlers(db)
	activityHandlers := handlers.NewActivityHandlers(db)
	vizHandlers := handlers.NewVizHandlers(db)
	resourceHandlers := handlers.NewResourceHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mandato",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_record",
		Description: "Validate a deal, company, contact, or activity record and list every issue without saving it",
	}, validateHandlers.ValidateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal; probability is derived from the stage unless given, and must match it",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal_stage",
		Description: "Move a deal to another pipeline stage and update its probability",
	}, dealHandlers.MoveDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_deals",
		Description: "Find deals by stage, mandate type, or company",
	}, dealHandlers.FindDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_company",
		Description: "Add a company with sector, country, and optional LTM financials",
	}, companyHandlers.AddCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search companies by name or sector",
	}, companyHandlers.FindCompanies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a contact, optionally linked to a company",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name or email, optionally within a company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log a call, email, or meeting against a deal or contact",
	}, activityHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List recent activities for a deal or contact",
	}, activityHandlers.ListActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_summary",
		Description: "Deal counts, EV ranges, and probability-weighted EV per stage",
	}, vizHandlers.PipelineSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pipeline_graph",
		Description: "GraphViz DOT source for the deal pipeline",
	}, vizHandlers.GenerateGraph)

	for _, r := range []struct{ uri, name, desc string }{
		{"crm://deals", "deals", "All deals"},
		{"crm://companies", "companies", "All companies"},
		{"crm://contacts", "contacts", "All contacts"},
		{"crm://stages", "stages", "Pipeline stages and their probabilities"},
		{"crm://pipeline", "pipeline", "Pipeline summary per stage"},
	} {
		server.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.desc,
			MIMEType:    "application/json",
		}, resourceHandlers.ReadResource)
	}

	for _, t := range []struct{ uri, name, desc string }{
		{"crm://deals/{id}", "deal", "One deal by ID"},
		{"crm://companies/{id}", "company", "One company by ID"},
		{"crm://contacts/{id}", "contact", "One contact by ID"},
	} {
		server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: t.uri,
			Name:        t.name,
			Description: t.desc,
			MIMEType:    "application/json",
		}, resourceHandlers.ReadResource)
	}

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, db *sql.DB, version string) error {
	log.Info().Msg("starting mandato MCP server")
	return NewMCPServer(db, version).Run(ctx, &mcp.StdioTransport{})
}
