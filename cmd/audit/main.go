// ABOUTME: Maintenance utility that re-runs deal validation over a stored database
// ABOUTME: Reports rows the current rules reject and realigns stale stage probabilities
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/mandato/config"
	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/logging"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
)

func main() {
	dbPath := flag.String("db", config.DefaultDBPath(), "Path to database file")
	dryRun := flag.Bool("dry-run", false, "Report findings without changing anything")
	backup := flag.Bool("backup", true, "Write a backup copy before fixing rows")
	lenient := flag.Bool("lenient-stage", false, "Accept stages outside the known pipeline")
	flag.Parse()

	logging.Setup("info", "auto")

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatal().Str("path", *dbPath).Msg("database file does not exist")
	}

	database, err := db.OpenDatabase(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() { _ = database.Close() }()

	if *backup && !*dryRun {
		backupPath := fmt.Sprintf("%s.backup.%s", *dbPath, time.Now().Format("20060102-150405"))
		if err := backupDatabase(database, backupPath); err != nil {
			log.Fatal().Err(err).Msg("failed to create backup")
		}
		log.Info().Str("path", backupPath).Msg("backup created")
	}

	var opts []schema.Option
	if *lenient {
		opts = append(opts, schema.WithLenientStage())
	}

	rep, err := audit(database, schema.New(opts...), !*dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("audit failed")
	}
	rep.print(os.Stdout)

	if len(rep.Invalid) > 0 {
		os.Exit(1)
	}
}

// finding is a stored deal the current rules reject.
type finding struct {
	ID     string
	Name   string
	Issues []schema.Issue
}

type report struct {
	Checked   int
	Realigned []string
	Invalid   []finding
}

// audit validates every stored deal. A deal whose only problem is a
// probability that no longer matches its stage is realigned when fix is set.
func audit(database *sql.DB, v *schema.Validator, fix bool) (*report, error) {
	deals, err := db.FindDeals(database, db.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	rep := &report{}
	for i := range deals {
		deal := deals[i]
		rep.Checked++

		err := v.ValidateDeal(deal)
		if err == nil {
			continue
		}
		verr, ok := schema.AsValidationError(err)
		if !ok {
			return nil, err
		}

		if onlyProbabilityDrift(verr) && models.IsKnownStage(deal.Stage) {
			if !fix {
				rep.Realigned = append(rep.Realigned, deal.ID)
				continue
			}
			deal.SetStage(deal.Stage)
			if err := db.UpdateDeal(database, &deal); err != nil {
				var inner *schema.ValidationError
				if errors.As(err, &inner) {
					rep.Invalid = append(rep.Invalid, finding{ID: deal.ID, Name: deal.Name, Issues: inner.Issues})
					continue
				}
				return nil, err
			}
			log.Info().Str("deal", deal.ID).Str("stage", deal.Stage).Int("probability", deal.ProbabilityPct).Msg("realigned probability")
			rep.Realigned = append(rep.Realigned, deal.ID)
			continue
		}

		rep.Invalid = append(rep.Invalid, finding{ID: deal.ID, Name: deal.Name, Issues: verr.Issues})
	}

	return rep, nil
}

func onlyProbabilityDrift(verr *schema.ValidationError) bool {
	for _, issue := range verr.Issues {
		if issue.Code != "probability_stage" {
			return false
		}
	}
	return len(verr.Issues) > 0
}

// backupDatabase writes a consistent copy, including pages still in the WAL.
func backupDatabase(database *sql.DB, path string) error {
	if _, err := database.Exec(`VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", path, err)
	}
	return nil
}

func (r *report) print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Checked %d deals\n", r.Checked)
	_, _ = fmt.Fprintf(w, "Probability realigned: %d\n", len(r.Realigned))
	for _, id := range r.Realigned {
		_, _ = fmt.Fprintf(w, "  %s\n", id)
	}
	_, _ = fmt.Fprintf(w, "Invalid: %d\n", len(r.Invalid))
	for _, f := range r.Invalid {
		_, _ = fmt.Fprintf(w, "  %s (%s)\n", f.Name, f.ID)
		for _, issue := range f.Issues {
			_, _ = fmt.Fprintf(w, "    %s [%s]: %s\n", issue.Path, issue.Code, issue.Message)
		}
	}
}
