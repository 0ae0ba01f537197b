// ABOUTME: import command
// ABOUTME: Loads a JSON array or JSON Lines batch through the validation gate into the database
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/mandato/importer"
	"github.com/harperreed/mandato/models"
)

// ImportCommand imports a batch file. Usage:
// import [--abort-on-error] [--kind deal] [--json] <file|->
func ImportCommand(ctx context.Context, database *sql.DB, args []string, workers int, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	abort := fs.Bool("abort-on-error", false, "Write nothing if any record is rejected")
	kind := fs.String("kind", models.KindDeal, "Kind for elements without a {kind, data} wrapper")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: import [--abort-on-error] [--kind deal] [--json] <file|->")
	}

	src := in
	if fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", fs.Arg(0), err)
		}
		defer f.Close()
		src = f
	}

	records, err := importer.ReadRecords(src, *kind)
	if err != nil {
		return err
	}

	report, err := importer.Import(ctx, database, records, importer.Options{
		Workers:      workers,
		AbortOnError: *abort,
	})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printImportReport(out, report)
	}

	if !report.OK() {
		return ErrRejected
	}
	return nil
}

func printImportReport(out io.Writer, report *importer.Report) {
	for _, r := range report.Rejected {
		_, _ = fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("✗ Record %d (%s)", r.Index, r.Kind)))
		if r.Error != "" {
			_, _ = fmt.Fprintf(out, "  %s\n", r.Error)
		}
		printIssues(out, r.Issues)
	}

	if report.Aborted {
		_, _ = fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("Import aborted: %d record(s) rejected, nothing written", len(report.Rejected))))
		return
	}
	_, _ = fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✓ Imported %d record(s)", len(report.Accepted))))
	if len(report.Rejected) > 0 {
		_, _ = fmt.Fprintf(out, "  %d record(s) rejected\n", len(report.Rejected))
	}
}
