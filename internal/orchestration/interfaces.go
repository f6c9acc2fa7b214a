package orchestration

import (
	"io"
	"sync"
)

// ProgressUpdate is a progress notification for one job.
type ProgressUpdate struct {
	// JobIndex is the position of the job in the planned list.
	JobIndex int
	// Value is the normalized progress (0.0 to 1.0).
	Value float64
}

// ProgressReporter defines the interface for displaying build progress.
// Implementations handle the visual representation (spinners, progress bars)
// while the orchestration layer focuses on building the tables.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}
