package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/seqtable/internal/cli"
	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/logging"
	"github.com/agbru/seqtable/internal/orchestration"
	"github.com/agbru/seqtable/internal/sequence"
	"github.com/agbru/seqtable/internal/server"
	"github.com/agbru/seqtable/internal/ui"
)

// progressLogThreshold is the progress change, as a fraction, between two
// debug log entries of the same job.
const progressLogThreshold = 0.25

// Application represents the seqtable application instance.
// It encapsulates the configuration and provides methods to run
// the application in its different modes (tables, server, completion).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Registry holds the sequences the application can tabulate.
	Registry *sequence.Registry
	// ErrWriter receives progress, status and diagnostics (typically os.Stderr).
	ErrWriter io.Writer

	logger  logging.Logger
	zlogger zerolog.Logger
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	registry := sequence.DefaultRegistry()

	programName := "seqtable"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, registry.Known())
	if err != nil {
		return nil, err
	}

	zl := logging.NewConsoleZerolog(errWriter, "seqtable", cfg.Debug)
	return &Application{
		Config:    cfg,
		Registry:  registry,
		ErrWriter: errWriter,
		logger:    logging.NewZerologAdapter(zl),
		zlogger:   zl,
	}, nil
}

// Run executes the application based on the configured mode.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//   - out: The writer receiving the tables (typically os.Stdout).
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if f, ok := a.ErrWriter.(*os.File); ok {
		ui.InitThemeFor(f, a.Config.NoColor)
	} else {
		ui.InitTheme(a.Config.NoColor)
	}

	if a.Config.ServerMode {
		return a.runServer(ctx)
	}

	return a.runTables(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.Known()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Registry, a.Config,
		server.WithLogger(logging.NewLogger(a.ErrWriter, "server")))
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTables builds the requested tables and writes them to out. Progress and
// the summary go to ErrWriter so that out only ever carries tables. When any
// table fails, or the -o file cannot be written, out receives nothing.
func (a *Application) runTables(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	jobs, err := orchestration.PlanJobs(a.Registry, a.Config.Sequence, a.Config.RequestedCounts())
	if err != nil {
		return apperrors.HandleGenerationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	opts := orchestration.Options{
		Concurrency: a.Config.Concurrency,
		Reporter:    cli.SpinnerReporter{},
		ProgressOut: a.ErrWriter,
		Observers:   []orchestration.ProgressObserver{orchestration.NewLoggingObserver(a.zlogger, progressLogThreshold)},
		Logger:      a.logger,
	}
	if a.Config.Quiet {
		opts.Reporter = orchestration.NullProgressReporter{}
	} else {
		cli.PrintExecutionConfig(a.Config, jobs, a.ErrWriter)
	}

	results := orchestration.BuildTables(ctx, jobs, opts)

	if err := orchestration.FirstError(results); err != nil {
		if a.Config.Quiet {
			return apperrors.HandleGenerationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		return cli.PrintSummary(results, a.ErrWriter)
	}

	// The file goes first: a failed save leaves stdout empty.
	if err := cli.WriteTablesToFile(a.Config.OutputFile, results); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving tables: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if err := orchestration.WriteTables(out, results); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing tables: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if a.Config.Quiet {
		return apperrors.ExitSuccess
	}
	exitCode := cli.PrintSummary(results, a.ErrWriter)
	if a.Config.OutputFile != "" {
		cli.PrintSaved(a.ErrWriter, a.Config.OutputFile)
	}
	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeFor maps an error returned by New to a process exit code. Help
// requests succeed; every other startup failure is a configuration error.
func ExitCodeFor(err error) int {
	switch {
	case err == nil, IsHelpError(err):
		return apperrors.ExitSuccess
	default:
		return apperrors.ExitErrorConfig
	}
}
