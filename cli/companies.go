// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for managing companies
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/viz"
)

// AddCompanyCommand adds a new company
func AddCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	sector := fs.String("sector", "", "Industry or sector (required)")
	country := fs.String("country", "", "Country (required)")
	ebitda := fs.String("ebitda", "", "EBITDA, last twelve months")
	revenue := fs.String("revenue", "", "Revenue, last twelve months")
	website := fs.String("website", "", "Website URL")
	_ = fs.Parse(args)

	company := &models.Company{
		Name:    *name,
		Sector:  *sector,
		Country: *country,
		Website: *website,
	}

	var err error
	if company.EbitdaLTM, err = optionalAmount(*ebitda); err != nil {
		return fmt.Errorf("invalid --ebitda: %w", err)
	}
	if company.IngresosLTM, err = optionalAmount(*revenue); err != nil {
		return fmt.Errorf("invalid --revenue: %w", err)
	}

	if err := db.CreateCompany(database, company); err != nil {
		return reportWriteError(os.Stdout, "create company", err)
	}

	fmt.Printf("✓ Company created: %s (ID: %s)\n", company.Name, company.ID)
	fmt.Printf("  Sector: %s  Country: %s\n", company.Sector, company.Country)
	if company.EbitdaLTM != nil {
		fmt.Printf("  EBITDA LTM: %s\n", viz.FormatAmount(*company.EbitdaLTM))
	}

	return nil
}

// ListCompaniesCommand lists companies matching a query
func ListCompaniesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or sector")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	companies, err := db.FindCompanies(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSECTOR\tCOUNTRY\tEBITDA\tID")
	_, _ = fmt.Fprintln(w, "----\t------\t-------\t------\t--")

	for _, company := range companies {
		ebitda := "-"
		if company.EbitdaLTM != nil {
			ebitda = viz.FormatAmount(*company.EbitdaLTM)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", company.Name, company.Sector, company.Country, ebitda, company.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// DeleteCompanyCommand deletes a company without deals.
func DeleteCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-company", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-company <id>")
	}

	if err := db.DeleteCompany(database, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted company: %s\n", fs.Arg(0))
	return nil
}

func optionalAmount(s string) (*models.Amount, error) {
	if s == "" {
		return nil, nil
	}
	a, err := models.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
