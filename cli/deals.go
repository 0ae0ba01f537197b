// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for adding, listing, moving, and deleting deals
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

// AddDealCommand adds a new deal.
func AddDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	name := fs.String("name", "", "Deal or project name (required)")
	mandate := fs.String("mandate", models.MandateSell, "Mandate type (Sell or Buy)")
	sector := fs.String("sector", "", "Target sector (required)")
	evMin := fs.String("ev-min", "0", "Lower bound of the EV range")
	evMax := fs.String("ev-max", "0", "Upper bound of the EV range")
	stage := fs.String("stage", models.StageNewLead, "Pipeline stage")
	probability := fs.Int("probability", -1, "Probability percent (default: derived from stage)")
	feeModel := fs.String("fee-model", "", "Fee model (percentage or fixed)")
	closeDate := fs.String("close-date", "", "Target close date (YYYY-MM-DD)")
	companyID := fs.String("company-id", "", "Target company ID")
	contactID := fs.String("contact-id", "", "Main contact ID")
	_ = fs.Parse(args)

	lo, err := models.ParseAmount(*evMin)
	if err != nil {
		return fmt.Errorf("invalid --ev-min: %w", err)
	}
	hi, err := models.ParseAmount(*evMax)
	if err != nil {
		return fmt.Errorf("invalid --ev-max: %w", err)
	}

	deal := &models.Deal{
		Name:            *name,
		MandateType:     *mandate,
		Sector:          *sector,
		EVMin:           lo,
		EVMax:           hi,
		FeeModel:        *feeModel,
		CloseTargetDate: *closeDate,
		CompanyID:       *companyID,
		ContactID:       *contactID,
	}
	deal.SetStage(*stage)
	if *probability >= 0 {
		deal.ProbabilityPct = *probability
	}

	if err := db.CreateDeal(database, deal); err != nil {
		return reportWriteError(os.Stdout, "create deal", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", deal.Name, deal.ID)
	fmt.Printf("  Mandate: %s  Sector: %s\n", deal.MandateType, deal.Sector)
	fmt.Printf("  EV: %s - %s\n", viz.FormatAmount(deal.EVMin), viz.FormatAmount(deal.EVMax))
	fmt.Printf("  Stage: %s (%d%%)\n", deal.Stage, deal.ProbabilityPct)

	return nil
}

// ListDealsCommand lists deals, newest first.
func ListDealsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	mandate := fs.String("mandate", "", "Filter by mandate type")
	companyID := fs.String("company-id", "", "Filter by company ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	deals, err := db.FindDeals(database, db.DealFilter{
		Stage:       *stage,
		MandateType: *mandate,
		CompanyID:   *companyID,
		Limit:       *limit,
	})
	if err != nil {
		return fmt.Errorf("failed to find deals: %w", err)
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tMANDATE\tEV\tSTAGE\tPROB\tWEIGHTED\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t--\t-----\t----\t--------\t--")

	total := models.Amount{}
	for i := range deals {
		deal := &deals[i]
		weighted := deal.WeightedEV()
		total = models.Amount{Decimal: total.Add(weighted.Decimal)}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\t%d%%\t%s\t%s\n",
			deal.Name, deal.MandateType, viz.FormatAmount(deal.EVMin), viz.FormatAmount(deal.EVMax),
			deal.Stage, deal.ProbabilityPct, viz.FormatAmount(weighted), deal.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s) - weighted EV %s\n", len(deals), viz.FormatAmount(total))
	return nil
}

// MoveDealCommand moves a deal to a new stage. Usage: move-deal <id> <stage>
func MoveDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		return fmt.Errorf("usage: move-deal <id> <stage>")
	}

	deal, err := db.MoveDealStage(database, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return reportWriteError(os.Stdout, "move deal", err)
	}

	fmt.Printf("✓ %s moved to %s (%d%%)\n", deal.Name, deal.Stage, deal.ProbabilityPct)
	return nil
}

// DeleteDealCommand deletes a deal and its activities.
func DeleteDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-deal <id>")
	}

	if err := db.DeleteDeal(database, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted deal: %s\n", fs.Arg(0))
	return nil
}
