// ABOUTME: Entry point for the mandato CLI and MCP server
// ABOUTME: Loads config, sets up logging and the validation gate, then routes commands
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/mandato/cli"
	"github.com/harperreed/mandato/config"
	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/logging"
	"github.com/harperreed/mandato/messages"
	"github.com/harperreed/mandato/schema"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const version = "0.2.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	configFile := flag.String("config", "", "Config file (default: ./config.yaml or XDG config dir)")
	dbPath := flag.String("db-path", "", "Database path (overrides config)")
	locale := flag.String("locale", "", "Message locale: es or en (overrides config)")
	lenient := flag.Bool("lenient-stage", false, "Accept deal stages outside the stage table")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("mandato version %s\n", version)
		os.Exit(0)
	}

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *lenient {
		cfg.LenientStage = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	validator, err := buildValidator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load messages")
	}
	schema.SetDefault(validator)

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, args, *initOnly)
	stop()
	os.Exit(code)
}

func buildValidator(cfg *config.Config) (*schema.Validator, error) {
	var catalog *messages.Catalog
	var err error
	if cfg.MessagesFile != "" {
		catalog, err = messages.LoadFile(cfg.MessagesFile)
	} else {
		catalog, err = messages.Load(cfg.Locale)
	}
	if err != nil {
		return nil, err
	}

	opts := []schema.Option{schema.WithCatalog(catalog)}
	if cfg.LenientStage {
		opts = append(opts, schema.WithLenientStage())
	}
	return schema.New(opts...), nil
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, args []string, initOnly bool) int {
	var command string
	var commandArgs []string
	if len(args) > 0 {
		command, commandArgs = args[0], args[1:]
	}

	// Commands that never touch the database.
	switch command {
	case "validate":
		return exitCode(cli.ValidateCommand(commandArgs, os.Stdin, os.Stdout))
	case "stages":
		return exitCode(cli.StagesCommand(os.Stdout))
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		return 1
	}
	defer database.Close()

	log.Debug().Str("path", cfg.DBPath).Msg("database opened")

	if initOnly {
		fmt.Printf("✓ Database initialized: %s\n", cfg.DBPath)
		return 0
	}

	return exitCode(dispatch(ctx, database, cfg, command, commandArgs))
}

func dispatch(ctx context.Context, database *sql.DB, cfg *config.Config, command string, args []string) error {
	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, database, version)
	case "import":
		return cli.ImportCommand(ctx, database, args, cfg.ImportWorkers, os.Stdin, os.Stdout)

	// Deal commands
	case "add-deal":
		return cli.AddDealCommand(database, args)
	case "list-deals":
		return cli.ListDealsCommand(database, args)
	case "move-deal":
		return cli.MoveDealCommand(database, args)
	case "delete-deal":
		return cli.DeleteDealCommand(database, args)

	// Company commands
	case "add-company":
		return cli.AddCompanyCommand(database, args)
	case "list-companies":
		return cli.ListCompaniesCommand(database, args)
	case "delete-company":
		return cli.DeleteCompanyCommand(database, args)

	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(database, args)
	case "list-contacts":
		return cli.ListContactsCommand(database, args)
	case "delete-contact":
		return cli.DeleteContactCommand(database, args)

	// Activity commands
	case "log-activity":
		return cli.LogActivityCommand(database, args)
	case "list-activities":
		return cli.ListActivitiesCommand(database, args)

	// Visualization
	case "dashboard":
		return cli.DashboardCommand(database, args)
	case "graph":
		return cli.GraphCommand(ctx, database, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		return errUsage
	}
}

var errUsage = errors.New("usage")

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrRejected), errors.Is(err, errUsage):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

func printUsage() {
	fmt.Printf(`mandato v%s - M&A deal pipeline with a validation gate

USAGE:
  mandato [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <file>        Config file (default: ./config.yaml or ~/.config/mandato/config.yaml)
  --db-path <path>       Database path (default: ~/.local/share/mandato/mandato.db)
  --locale <es|en>       Language for validation messages (default: es)
  --lenient-stage        Accept stages outside the stage table (probability 0)
  --log-level <level>    debug, info, warn, error
  --init                 Initialize database and exit

  Every setting can also come from MANDATO_* environment variables or .env.

VALIDATION:
  mandato validate [--json] <kind> [file]   Validate one record (kind: deal, company, contact, activity)
  mandato import [flags] <file|->           Import a JSON array or JSON Lines batch
    --abort-on-error                          Write nothing if any record is rejected
    --kind <kind>                             Kind for bare records (default: deal)
    --json                                    Print the report as JSON
  mandato stages                            Show stages and their probabilities

DEALS:
  mandato add-deal          Add a deal
    --name <name>             Deal name (required)
    --mandate <Sell|Buy>      Mandate type (default: Sell)
    --sector <sector>         Sector (required)
    --ev-min <amount>         EV lower bound
    --ev-max <amount>         EV upper bound
    --stage <stage>           Stage (default: New Lead)
    --probability <pct>       Probability (default: derived from stage)
    --fee-model <model>       percentage or fixed
    --close-date <date>       Target close date
    --company-id <id>         Target company
    --contact-id <id>         Main contact
  mandato list-deals        List deals (--stage, --mandate, --company-id, --limit)
  mandato move-deal <id> <stage>
  mandato delete-deal <id>

COMPANIES AND CONTACTS:
  mandato add-company       --name --sector --country [--ebitda --revenue --website]
  mandato list-companies    [--query --limit]
  mandato delete-company <id>
  mandato add-contact       --name --email [--phone --role --language --company-id --influence]
  mandato list-contacts     [--query --company-id --limit]
  mandato delete-contact <id>

ACTIVITIES:
  mandato log-activity      --title --type [--description --result --next-step --due --deal-id --contact-id]
  mandato list-activities   [--deal-id --contact-id --limit]

OVERVIEW:
  mandato dashboard         Pipeline dashboard with weighted EV
  mandato graph             GraphViz DOT of the pipeline (--output, --stage)

MCP SERVER:
  mandato mcp               Start MCP server on stdio

EXAMPLES:
  # Check a record before saving it
  echo '{"id":"d1","name":"Atlas","mandateType":"Sell","sector":"SaaS","evMin":1,"evMax":2,"stage":"Qualified","probabilityPct":15}' | mandato validate deal

  # Import a batch, all or nothing
  mandato import --abort-on-error deals.jsonl

  # Move a deal forward
  mandato move-deal 3f2a... "NDA Signed"

`, version)
}
