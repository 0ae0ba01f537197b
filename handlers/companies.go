// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company and find_companies tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

type CompanyHandlers struct {
	db *sql.DB
}

func NewCompanyHandlers(database *sql.DB) *CompanyHandlers {
	return &CompanyHandlers{db: database}
}

type AddCompanyInput struct {
	Name        string   `json:"name" jsonschema:"Company name (required)"`
	Sector      string   `json:"sector" jsonschema:"Industry or sector (required)"`
	Country     string   `json:"country" jsonschema:"Country name or ISO code (required)"`
	EbitdaLTM   *float64 `json:"ebitda_ltm,omitempty" jsonschema:"EBITDA over the last twelve months"`
	IngresosLTM *float64 `json:"ingresos_ltm,omitempty" jsonschema:"Revenue over the last twelve months"`
	Website     string   `json:"website,omitempty" jsonschema:"Company website URL"`
}

type CompanyOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Country     string `json:"country"`
	EbitdaLTM   string `json:"ebitda_ltm,omitempty"`
	IngresosLTM string `json:"ingresos_ltm,omitempty"`
	Website     string `json:"website,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (h *CompanyHandlers) AddCompany(_ context.Context, request *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	company := &models.Company{
		Name:        input.Name,
		Sector:      input.Sector,
		Country:     input.Country,
		EbitdaLTM:   floatAmount(input.EbitdaLTM),
		IngresosLTM: floatAmount(input.IngresosLTM),
		Website:     input.Website,
	}

	if err := db.CreateCompany(h.db, company); err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}

	return nil, companyToOutput(company), nil
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name or sector"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, request *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	companies, err := db.FindCompanies(h.db, input.Query, input.Limit)
	if err != nil {
		return nil, FindCompaniesOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	out := FindCompaniesOutput{Companies: make([]CompanyOutput, 0, len(companies))}
	for i := range companies {
		out.Companies = append(out.Companies, companyToOutput(&companies[i]))
	}
	return nil, out, nil
}

func companyToOutput(company *models.Company) CompanyOutput {
	out := CompanyOutput{
		ID:        company.ID,
		Name:      company.Name,
		Sector:    company.Sector,
		Country:   company.Country,
		Website:   company.Website,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
	if company.EbitdaLTM != nil {
		out.EbitdaLTM = company.EbitdaLTM.String()
	}
	if company.IngresosLTM != nil {
		out.IngresosLTM = company.IngresosLTM.String()
	}
	return out
}

func floatAmount(f *float64) *models.Amount {
	if f == nil {
		return nil
	}
	return &models.Amount{Decimal: decimal.NewFromFloat(*f)}
}
