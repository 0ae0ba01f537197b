// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the pipeline dashboard and graph generation commands
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/mandato/viz"
)

// DashboardCommand prints the pipeline dashboard.
func DashboardCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, err := viz.GeneratePipelineStats(database)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// GraphCommand generates the deal pipeline graph.
func GraphCommand(ctx context.Context, database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	stage := fs.String("stage", "", "Only draw deals in this stage")
	_ = fs.Parse(args)

	dot, err := viz.NewGraphGenerator(database).GeneratePipelineGraph(ctx, *stage)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
