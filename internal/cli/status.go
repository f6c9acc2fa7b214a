package cli

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/orchestration"
)

// CLIColorProvider implements apperrors.ColorProvider with the current theme.
type CLIColorProvider struct{}

// Yellow implements apperrors.ColorProvider.
func (CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset implements apperrors.ColorProvider.
func (CLIColorProvider) Reset() string { return ColorReset() }

// PrintExecutionConfig describes the planned run on the status stream.
//
// Parameters:
//   - cfg: The application configuration.
//   - jobs: The planned jobs.
//   - out: The status writer (stderr).
func PrintExecutionConfig(cfg config.AppConfig, jobs []orchestration.Job, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Building %s%d%s table(s) with a timeout of %s%s%s.\n",
		ColorCyan(), len(jobs), ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, concurrency %s%d%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(),
		ColorCyan(), runtime.Version(), ColorReset(),
		ColorCyan(), cfg.Concurrency, ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintSummary lists every table with its size, duration and status, and
// returns the exit code of the run.
func PrintSummary(results []orchestration.TableResult, out io.Writer) int {
	fmt.Fprintf(out, "\n--- Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sTable%s\t%sTerms%s\t%sDigits%s\t%sDuration%s\t%sStatus%s\n",
		ColorUnderline(), ColorReset(), ColorUnderline(), ColorReset(), ColorUnderline(), ColorReset(),
		ColorUnderline(), ColorReset(), ColorUnderline(), ColorReset())

	var firstErr error
	var total time.Duration
	for _, res := range results {
		total += res.Duration
		status := fmt.Sprintf("%sOK%s", ColorGreen(), ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%sFailed (%v)%s", ColorRed(), res.Err, ColorReset())
			if firstErr == nil {
				firstErr = res.Err
			}
		}
		duration := FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%d\t%d\t%s%s%s\t%s\n",
			ColorBlue(), res.Job.Title(), ColorReset(),
			len(res.Terms), lastTermDigits(res),
			ColorYellow(), duration, ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if firstErr != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No table was written.\n")
		return apperrors.HandleGenerationError(firstErr, total, out, CLIColorProvider{})
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. %d table(s) written.\n", len(results))
	return apperrors.ExitSuccess
}

// lastTermDigits returns the decimal length of the largest (last) term.
func lastTermDigits(res orchestration.TableResult) int {
	if len(res.Terms) == 0 {
		return 0
	}
	last := res.Terms[len(res.Terms)-1]
	digits := len(last.Text(10))
	if last.Sign() < 0 {
		digits--
	}
	return digits
}
