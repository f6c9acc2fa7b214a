package orchestration

import (
	"context"
	"io"
	"math/big"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/logging"
	"github.com/agbru/seqtable/internal/sequence"
	"github.com/agbru/seqtable/internal/table"
)

// SelectAll is the selection that plans every registered sequence.
const SelectAll = "all"

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the number of dropped updates when the UI
// is slow to consume them.
const ProgressBufferMultiplier = 5

var tracer = otel.Tracer("github.com/agbru/seqtable/internal/orchestration")

// Job is one table to build: N terms of one sequence.
type Job struct {
	Kind sequence.Kind
	N    int
}

// Title returns the title line of the job's table.
func (j Job) Title() string { return j.Kind.Title(j.N) }

// TableResult is the outcome of one Job.
type TableResult struct {
	Job Job
	// Terms holds exactly Job.N terms. It is nil if an error occurred.
	Terms []*big.Int
	// Duration is the time taken to extract the terms.
	Duration time.Duration
	// Err contains any error that occurred during extraction.
	Err error
}

// Table returns the renderer input for the result.
func (r TableResult) Table() table.Table {
	return table.Table{
		Title:       r.Job.Title(),
		ValueHeader: r.Job.Kind.ValueHeader,
		Terms:       r.Terms,
	}
}

// Options configures BuildTables. The zero value builds one table at a time
// without progress display or logging.
type Options struct {
	// Concurrency is the maximum number of jobs built at the same time.
	Concurrency int
	// Reporter displays progress; NullProgressReporter when nil.
	Reporter ProgressReporter
	// ProgressOut is where the reporter writes; io.Discard when nil.
	ProgressOut io.Writer
	// Observers receive every progress update in addition to the reporter.
	Observers []ProgressObserver
	// Logger receives job-level diagnostics.
	Logger logging.Logger
}

// PlanJobs expands a selection and a list of counts into jobs. Jobs are
// ordered by count first, in argument order, then by sequence name.
//
// Parameters:
//   - catalog: The registry used to resolve the selection.
//   - selection: A sequence name, an alias, or SelectAll.
//   - counts: The requested counts; each must be non-negative.
//
// Returns:
//   - []Job: The planned jobs.
//   - error: An InvalidCount error for a negative count, or an unknown
//     sequence error.
func PlanJobs(catalog sequence.Catalog, selection string, counts []int) ([]Job, error) {
	var kinds []sequence.Kind
	if selection == SelectAll {
		kinds = catalog.Kinds()
	} else {
		k, err := catalog.Get(selection)
		if err != nil {
			return nil, err
		}
		kinds = []sequence.Kind{k}
	}

	jobs := make([]Job, 0, len(counts)*len(kinds))
	for _, n := range counts {
		if n < 0 {
			return nil, apperrors.NewInvalidCountError(n)
		}
		for _, k := range kinds {
			jobs = append(jobs, Job{Kind: k, N: n})
		}
	}
	return jobs, nil
}

// BuildTables builds every job concurrently and returns one result per job,
// in job order. Each job owns its generator. A failing job does not stop the
// others; its error is recorded in its result.
func BuildTables(ctx context.Context, jobs []Job, opts Options) []TableResult {
	results := make([]TableResult, len(jobs))
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	out := opts.ProgressOut
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	progressChan := make(chan ProgressUpdate, len(jobs)*ProgressBufferMultiplier)
	subject := NewProgressSubject()
	subject.Register(NewChannelObserver(progressChan))
	for _, o := range opts.Observers {
		subject.Register(o)
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(jobs), out)

	var g errgroup.Group
	g.SetLimit(max(opts.Concurrency, 1))
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = buildTable(ctx, job, subject.AsProgressFunc(i), logger)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

func buildTable(ctx context.Context, job Job, progress sequence.ProgressFunc, logger logging.Logger) TableResult {
	ctx, span := tracer.Start(ctx, "BuildTable",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("sequence", job.Kind.Name),
			attribute.Int("n", job.N),
		))
	defer span.End()

	start := time.Now()
	terms, err := sequence.TakeWithProgress(ctx, job.Kind.New(), job.N, progress)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tableBuildDuration.WithLabelValues(job.Kind.Name, "error").Observe(duration.Seconds())
		logger.Error("table build failed", err,
			logging.String("sequence", job.Kind.Name),
			logging.Int("n", job.N))
		return TableResult{Job: job, Duration: duration, Err: apperrors.NewGenerationError(job.Kind.Name, err)}
	}

	termsGenerated.WithLabelValues(job.Kind.Name).Add(float64(len(terms)))
	tableBuildDuration.WithLabelValues(job.Kind.Name, "ok").Observe(duration.Seconds())
	logger.Debug("table built",
		logging.String("sequence", job.Kind.Name),
		logging.Int("n", job.N),
		logging.Float64("seconds", duration.Seconds()))
	return TableResult{Job: job, Terms: terms, Duration: duration}
}

// FirstError returns the error of the first failed result, or nil.
func FirstError(results []TableResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// WriteTables renders the results to out, in order, back to back. If any
// result failed, nothing is written and that result's error is returned.
func WriteTables(out io.Writer, results []TableResult) error {
	if err := FirstError(results); err != nil {
		return err
	}
	for _, r := range results {
		if err := table.Render(out, r.Table()); err != nil {
			return err
		}
	}
	return nil
}
