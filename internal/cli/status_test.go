package cli

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/orchestration"
	"github.com/agbru/seqtable/internal/sequence"
	"github.com/agbru/seqtable/internal/testutil"
	"github.com/agbru/seqtable/internal/ui"
)

func TestPrintExecutionConfig(t *testing.T) {
	jobs, _ := orchestration.PlanJobs(sequence.DefaultRegistry(), orchestration.SelectAll, []int{1, 2})
	cfg := config.AppConfig{Timeout: 30 * time.Second, Concurrency: 2}

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, jobs, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	for _, want := range []string{"Building 4 table(s) with a timeout of 30s.", "concurrency 2.", "--- Starting Execution ---"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_Success(t *testing.T) {
	results := buildResults(t, "factorial", 25)

	var buf bytes.Buffer
	code := PrintSummary(results, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	// 25! has 26 digits.
	if !strings.Contains(out, "factorial up to 25") || !strings.Contains(out, "26") {
		t.Errorf("summary missing table row:\n%s", out)
	}
	if !strings.Contains(out, "Global Status: Success. 1 table(s) written.") {
		t.Errorf("summary missing success line:\n%s", out)
	}
}

func TestPrintSummary_Timeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	jobs, _ := orchestration.PlanJobs(sequence.DefaultRegistry(), "fib", []int{10})
	results := orchestration.BuildTables(ctx, jobs, orchestration.Options{})

	var buf bytes.Buffer
	code := PrintSummary(results, &buf)
	out := testutil.StripAnsiCodes(buf.String())

	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(out, "Status: Failure (Timeout)") {
		t.Errorf("summary missing timeout status:\n%s", out)
	}
}

func TestLastTermDigits(t *testing.T) {
	t.Parallel()

	res := orchestration.TableResult{Terms: []*big.Int{big.NewInt(5), big.NewInt(-1234)}}
	if got := lastTermDigits(res); got != 4 {
		t.Errorf("lastTermDigits() = %d, want 4", got)
	}
	if got := lastTermDigits(orchestration.TableResult{}); got != 0 {
		t.Errorf("lastTermDigits(empty) = %d, want 0", got)
	}
}

func TestCLIColorProvider(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Setenv("NO_COLOR", "")
		os.Unsetenv("NO_COLOR")
	}

	provider := CLIColorProvider{}

	ui.InitTheme(false)
	if provider.Yellow() == "" {
		t.Error("Yellow should return a color code when colors are enabled")
	}

	ui.InitTheme(true)
	if provider.Yellow() != "" || provider.Reset() != "" {
		t.Error("colors should be empty when NoColor is true")
	}
}
