// ABOUTME: Bulk import of deals, companies, contacts, and activities
// ABOUTME: Validates a batch in parallel, then writes accepted records in input order
package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options controls an Import run.
type Options struct {
	// Workers bounds parallel validation. Values below one mean one.
	Workers int
	// AbortOnError writes nothing when any record is rejected, whether by
	// validation or by the store.
	AbortOnError bool
}

// Result is the outcome for one input record.
type Result struct {
	Index  int            `json:"index"`
	Kind   string         `json:"kind"`
	ID     string         `json:"id,omitempty"`
	Issues []schema.Issue `json:"issues,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Report lists accepted and rejected records, each in input order.
type Report struct {
	Accepted []Result `json:"accepted"`
	Rejected []Result `json:"rejected"`
	Aborted  bool     `json:"aborted"`
}

// OK reports whether every record was written.
func (r *Report) OK() bool {
	return len(r.Rejected) == 0 && !r.Aborted
}

type checked struct {
	rec    any
	issues []schema.Issue
	err    error
}

// Import validates records with schema.Default() and stores the valid ones.
// Validation runs in parallel; writes happen afterwards in one transaction,
// one at a time, in input order. The returned error is reserved for
// cancellation and transaction failures; per-record failures are in the
// Report.
func Import(ctx context.Context, database *sql.DB, records []Record, opts Options) (*Report, error) {
	v := schema.Default()
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]checked, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := v.Parse(record.Kind, record.Data)
			if verr, ok := schema.AsValidationError(err); ok {
				results[i] = checked{issues: verr.Issues}
				return nil
			}
			results[i] = checked{rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("import cancelled: %w", err)
	}

	report := &Report{}
	for i, c := range results {
		if c.rec == nil {
			report.Rejected = append(report.Rejected, rejected(i, records[i].Kind, c))
		}
	}

	if opts.AbortOnError && len(report.Rejected) > 0 {
		report.Aborted = true
		log.Warn().Int("rejected", len(report.Rejected)).Int("records", len(records)).Msg("import aborted")
		return report, nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	report.Rejected = report.Rejected[:0]
	for i, c := range results {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import cancelled: %w", err)
		}
		if c.rec == nil {
			report.Rejected = append(report.Rejected, rejected(i, records[i].Kind, c))
			continue
		}

		id, err := store(tx, c.rec)
		if err != nil {
			log.Error().Err(err).Int("index", i).Str("entity", records[i].Kind).Msg("import write failed")
			report.Rejected = append(report.Rejected, rejected(i, records[i].Kind, storeFailure(err)))
			if opts.AbortOnError {
				report.Accepted = nil
				report.Aborted = true
				log.Warn().Int("index", i).Int("records", len(records)).Msg("import aborted, batch rolled back")
				return report, nil
			}
			continue
		}
		report.Accepted = append(report.Accepted, Result{Index: i, Kind: records[i].Kind, ID: id})
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("failed to commit import: %w", err)
	}

	log.Info().
		Int("accepted", len(report.Accepted)).
		Int("rejected", len(report.Rejected)).
		Msg("import finished")
	return report, nil
}

func rejected(i int, kind string, c checked) Result {
	r := Result{Index: i, Kind: kind, Issues: c.issues}
	if c.err != nil {
		r.Error = c.err.Error()
	}
	return r
}

func storeFailure(err error) checked {
	if verr, ok := schema.AsValidationError(err); ok {
		return checked{issues: verr.Issues}
	}
	return checked{err: err}
}

func store(database db.Execer, rec any) (string, error) {
	var err error
	switch r := rec.(type) {
	case *models.Deal:
		err = db.CreateDeal(database, r)
		return r.ID, err
	case *models.Company:
		err = db.CreateCompany(database, r)
		return r.ID, err
	case *models.Contact:
		err = db.CreateContact(database, r)
		return r.ID, err
	case *models.Activity:
		err = db.CreateActivity(database, r)
		return r.ID, err
	default:
		return "", fmt.Errorf("unsupported record %T", rec)
	}
}
