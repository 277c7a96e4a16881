package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vila-timesheet/internal/config"
	"vila-timesheet/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	build   AppBuilder
	config  *config.Config
	logger  *slog.Logger
	app     *App
	history HistoryOptions
}

// NewRootCommand creates the root cobra command with global flags. The
// configuration is loaded once flags are parsed and the App is built on first use.
func NewRootCommand(loader *config.Loader, build AppBuilder) *RootCommand {
	if build == nil {
		build = BuildApp
	}
	root := &RootCommand{
		loader: loader,
		build:  build,
	}

	root.cmd = &cobra.Command{
		Use:   "vila",
		Short: "Vila Acadia timesheet service",
		Long: `vila records employee shifts and daily tip totals in a spreadsheet that
doubles as the payroll database. Each calendar month gets its own sheet.

EXAMPLES:
  vila serve                                        # Run the HTTP API
  vila submit-hours "John Doe" 2026-01-28 09:00 17:00
  vila submit-tips 2026-01-28 500                   # Record the day's tip total
  vila period 2026-01-28                            # Period status and summary
  vila roster import staff.xlsx                     # Replace the roster
  vila --ledger ledger claim "January 2026" C6      # Inspect a ledger claim
  vila --store xlsx --workbook vila.xlsx health     # Use a local workbook

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env file > defaults

  Store Configuration:
    VILA_STORE                             Backend: sheets, xlsx or memory (default: sheets)
    GOOGLE_SHEET_ID                        Spreadsheet id (sheets backend)
    SERVICE_ACCOUNT_JSON                   Inline service account key (sheets backend)
    SERVICE_ACCOUNT_FILE                   Service account key file (sheets backend)
    VILA_WORKBOOK                          Workbook path (default: vila-timesheet.xlsx)
    VILA_LAYOUT_FILE                       YAML layout overrides

  Server Configuration:
    HOST, PORT                             Listen address (default: 0.0.0.0:8000)
    FRONTEND_URL, ALLOWED_ORIGINS          CORS origins
    VILA_REQUEST_TIMEOUT                   Per-request timeout (default: 30s)
    MANAGER_PASSWORD                       Manager password (required for manager login)
    VILA_TOKEN_SECRET, VILA_TOKEN_TTL      Manager token signing key and lifetime

  Ledger Configuration:
    VILA_LEDGER                            Keep a local SQLite ledger (default: false)
    VILA_LEDGER_PATH                       Ledger file (default: ~/.vila/ledger.db)

  Application Configuration:
    VILA_TIMEZONE                          Timezone deciding open periods (default: UTC)
    VILA_APP_TIMEOUT                       Command timeout (default: 60s)
    VILA_DEBUG                             Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases whatever the command opened
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.closeApp()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Store configuration
	flags.String("store", "", "Spreadsheet backend: sheets, xlsx or memory (overrides VILA_STORE)")
	flags.String("workbook", "", "Workbook path for the xlsx backend (overrides VILA_WORKBOOK)")
	flags.String("sheet-id", "", "Google spreadsheet id (overrides GOOGLE_SHEET_ID)")
	flags.String("layout", "", "YAML layout file (overrides VILA_LAYOUT_FILE)")

	// Server configuration
	flags.String("host", "", "Listen host (overrides HOST)")
	flags.Int("port", 0, "Listen port (overrides PORT)")

	// Ledger configuration
	flags.Bool("ledger", false, "Keep a local SQLite ledger (overrides VILA_LEDGER)")
	flags.String("ledger-path", "", "Ledger file (overrides VILA_LEDGER_PATH)")

	// Application configuration
	flags.String("timezone", "", "Timezone deciding open periods (overrides VILA_TIMEZONE)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides VILA_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve the JSON API used by the employee and manager frontends until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return r.run(ctx, cmd, args, func(app *App) Command { return NewServeCommand(app) })
		},
	}

	submitHoursCmd := &cobra.Command{
		Use:   "submit-hours NAME DATE START END",
		Short: "Record an employee shift",
		Long: `Record an employee's shift in the period sheet of DATE.

DATE is YYYY-MM-DD and START/END are 24-hour HH:MM. A shift that ends before
it starts runs past midnight. A cell that already holds hours is never overwritten.

Example:
  vila submit-hours "John Doe" 2026-01-28 09:00 17:00`,
		Args: cobra.ExactArgs(4),
		RunE: r.timed(func(app *App) Command { return NewSubmitHoursCommand(app) }),
	}

	submitTipsCmd := &cobra.Command{
		Use:   "submit-tips DATE AMOUNT",
		Short: "Record the daily tip total",
		Long: `Record the total tips of DATE. The amount is rounded to cents and replaces
any total already recorded for the day.

Example:
  vila submit-tips 2026-01-28 512.40`,
		Args: cobra.ExactArgs(2),
		RunE: r.timed(func(app *App) Command { return NewSubmitTipsCommand(app) }),
	}

	periodCmd := &cobra.Command{
		Use:   "period DATE",
		Short: "Show the period of a date",
		Long:  "Show the period sheet of DATE, its cutoff, whether it still accepts submissions and what it holds.",
		Args:  cobra.ExactArgs(1),
		RunE:  r.timed(func(app *App) Command { return NewPeriodCommand(app) }),
	}

	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the employee roster",
	}
	rosterCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List employees on the roster",
			Args:  cobra.NoArgs,
			RunE:  r.timed(func(app *App) Command { return NewRosterListCommand(app) }),
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Replace the roster from a file",
			Long: `Replace the roster tab with the employees in FILE (.xlsx, .xls or .csv).
The first row must contain Name and PIN columns.`,
			Args: cobra.ExactArgs(1),
			RunE: r.timed(func(app *App) Command { return NewRosterImportCommand(app) }),
		},
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions from the ledger",
		Long: `List submissions recorded in the local ledger, newest first.
Requires the ledger (VILA_LEDGER=true or --ledger).`,
		Args: cobra.NoArgs,
		RunE: r.timed(func(app *App) Command { return NewHistoryCommand(app, r.history) }),
	}
	historyFlags := historyCmd.Flags()
	historyFlags.StringVar(&r.history.Employee, "employee", "", "Only submissions of this employee")
	historyFlags.StringVar(&r.history.Kind, "kind", "", "Only hours or tips")
	historyFlags.StringVar(&r.history.Sheet, "sheet", "", "Only submissions to this period sheet")
	historyFlags.IntVar(&r.history.Limit, "limit", 0, "Maximum number of submissions")
	historyFlags.StringVar(&r.history.Format, "format", "table", "Output format: table or csv")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and repair the local ledger",
		Long: `Maintenance commands for the local SQLite ledger.
Requires the ledger (VILA_LEDGER=true or --ledger).`,
	}
	ledgerCmd.AddCommand(
		&cobra.Command{
			Use:     "claim SHEET CELL",
			Short:   "Show whether a cell is claimed",
			Example: `  vila --ledger ledger claim "January 2026" C6`,
			Args:    cobra.ExactArgs(2),
			RunE:    r.timed(func(app *App) Command { return NewLedgerClaimCommand(app) }),
		},
		&cobra.Command{
			Use:   "release SHEET CELL",
			Short: "Release a claim whose write never reached the sheet",
			Long: `Release the ledger claim on SHEET CELL so the cell can be submitted again.
The spreadsheet is not modified; a cell that already holds hours still
rejects a second submission.`,
			Args: cobra.ExactArgs(2),
			RunE: r.timed(func(app *App) Command { return NewLedgerReleaseCommand(app) }),
		},
		&cobra.Command{
			Use:   "rollback",
			Short: "Revert the newest ledger migration",
			Long: `Revert the newest ledger schema migration. Migrations are applied again
the next time the ledger is opened.`,
			Args: cobra.NoArgs,
			RunE: r.timed(func(app *App) Command { return NewLedgerRollbackCommand(app) }),
		},
	)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check the spreadsheet connection",
		Args:  cobra.NoArgs,
		RunE:  r.timed(func(app *App) Command { return NewHealthCommand(app) }),
	}

	r.cmd.AddCommand(
		serveCmd,
		submitHoursCmd,
		submitTipsCmd,
		periodCmd,
		rosterCmd,
		historyCmd,
		ledgerCmd,
		healthCmd,
	)
}

// timed runs a command handler under the application timeout
func (r *RootCommand) timed(handler func(*App) Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()
		return r.run(ctx, cmd, args, handler)
	}
}

func (r *RootCommand) run(ctx context.Context, cmd *cobra.Command, args []string, handler func(*App) Command) error {
	app, err := r.getApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return handler(app).Execute(ctx, args)
}

// getApp builds the App on first use
func (r *RootCommand) getApp(ctx context.Context, out io.Writer) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.config == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	app, err := r.build(ctx, r.config, out, r.logger)
	if err != nil {
		return nil, NewErrorHandler().Handle("start", err)
	}
	r.app = app
	return app, nil
}

func (r *RootCommand) closeApp() {
	if r.app == nil {
		return
	}
	if err := r.app.Close(); err != nil && r.logger != nil {
		r.logger.Warn("failed to close resources", "error", err)
	}
	r.app = nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// loadConfig loads the configuration with the flags that were set on the command line
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	if r.loader == nil {
		return fmt.Errorf("configuration not initialized")
	}

	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags(cmd))
	if err != nil {
		return err
	}
	r.config = cfg
	r.logger = logging.New(cmd.ErrOrStderr(), logging.Level(cfg.Application.Verbose))
	return nil
}

// getOverridesFromFlags collects the global flags the user actually set
func (r *RootCommand) getOverridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("store") {
		v, _ := flags.GetString("store")
		overrides.Store = &v
	}
	if flags.Changed("workbook") {
		v, _ := flags.GetString("workbook")
		overrides.Workbook = &v
	}
	if flags.Changed("sheet-id") {
		v, _ := flags.GetString("sheet-id")
		overrides.SpreadsheetID = &v
	}
	if flags.Changed("layout") {
		v, _ := flags.GetString("layout")
		overrides.LayoutFile = &v
	}
	if flags.Changed("host") {
		v, _ := flags.GetString("host")
		overrides.Host = &v
	}
	if flags.Changed("port") {
		v, _ := flags.GetInt("port")
		overrides.Port = &v
	}
	if flags.Changed("ledger") {
		v, _ := flags.GetBool("ledger")
		overrides.Ledger = &v
	}
	if flags.Changed("ledger-path") {
		v, _ := flags.GetString("ledger-path")
		overrides.LedgerPath = &v
	}
	if flags.Changed("timezone") {
		v, _ := flags.GetString("timezone")
		overrides.Timezone = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	return overrides
}
