// ABOUTME: Activity CLI commands
// ABOUTME: Logs calls, emails, and meetings and lists them per deal or contact
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
)

// LogActivityCommand records an activity.
func LogActivityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	title := fs.String("title", "", "Short title (required)")
	kind := fs.String("type", models.ActivityCall, "Type (call, email, meeting)")
	description := fs.String("description", "", "What happened")
	result := fs.String("result", "", "Outcome")
	nextStep := fs.String("next-step", "", "Agreed next step")
	dueDate := fs.String("due", "", "Due date for the next step (YYYY-MM-DD)")
	dealID := fs.String("deal-id", "", "Related deal ID")
	contactID := fs.String("contact-id", "", "Related contact ID")
	_ = fs.Parse(args)

	activity := &models.Activity{
		Title:       *title,
		Type:        *kind,
		Description: *description,
		Result:      *result,
		NextStep:    *nextStep,
		DueDate:     *dueDate,
		DealID:      *dealID,
		ContactID:   *contactID,
	}

	if err := db.CreateActivity(database, activity); err != nil {
		return reportWriteError(os.Stdout, "log activity", err)
	}

	fmt.Printf("✓ Logged %s: %s (ID: %s)\n", activity.Type, activity.Title, activity.ID)
	if activity.NextStep != "" {
		fmt.Printf("  Next: %s\n", activity.NextStep)
	}
	return nil
}

// ListActivitiesCommand lists recent activities.
func ListActivitiesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ExitOnError)
	dealID := fs.String("deal-id", "", "Filter by deal ID")
	contactID := fs.String("contact-id", "", "Filter by contact ID")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	activities, err := db.ListActivities(database, *dealID, *contactID, *limit)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if len(activities) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTYPE\tTITLE\tNEXT STEP")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t---------")
	for _, a := range activities {
		next := a.NextStep
		if next == "" {
			next = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.CreatedAt, a.Type, a.Title, next)
	}
	_ = w.Flush()
	return nil
}
