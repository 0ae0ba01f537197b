// ABOUTME: validate command
// ABOUTME: Checks one record from a file or stdin without touching the database
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
)

type validateOutput struct {
	Kind   string         `json:"kind"`
	Valid  bool           `json:"valid"`
	Issues []schema.Issue `json:"issues"`
}

// ValidateCommand validates a single record. Usage: validate [--json] <kind> [file].
// Without a file, or with "-", the record is read from in.
func ValidateCommand(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	_ = fs.Parse(args)

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("usage: validate [--json] <deal|company|contact|activity> [file]")
	}
	kind := fs.Arg(0)

	var raw []byte
	var err error
	if fs.NArg() == 2 && fs.Arg(1) != "-" {
		raw, err = os.ReadFile(fs.Arg(1))
	} else {
		raw, err = io.ReadAll(in)
	}
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	_, err = schema.Default().Parse(kind, raw)
	result := validateOutput{Kind: kind, Valid: err == nil, Issues: []schema.Issue{}}
	if err != nil {
		verr, ok := schema.AsValidationError(err)
		if !ok {
			return err
		}
		result.Issues = verr.Issues
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if result.Valid {
		_, _ = fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✓ Valid %s", kind)))
	} else {
		_, _ = fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("✗ Invalid %s (%d issue(s))", kind, len(result.Issues))))
		printIssues(out, result.Issues)
	}

	if !result.Valid {
		return ErrRejected
	}
	return nil
}

// StagesCommand prints the stage table in pipeline order.
func StagesCommand(out io.Writer) error {
	for _, stage := range models.Stages() {
		_, _ = fmt.Fprintf(out, "%-16s %3d%%\n", stage, models.ProbabilityForStage(stage))
	}
	return nil
}
