// Package service builds rendered tables on demand for the HTTP server.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/agbru/seqtable/internal/logging"
	"github.com/agbru/seqtable/internal/orchestration"
	"github.com/agbru/seqtable/internal/sequence"
)

// ErrMaxValueExceeded is returned when a request asks for more terms than the
// service allows.
var ErrMaxValueExceeded = errors.New("requested count exceeds the configured maximum")

// Service renders tables for a sequence selection and a count.
type Service interface {
	// Render returns the markdown rendering of the selected tables.
	Render(ctx context.Context, selection string, n int) ([]byte, error)
	// Sequences returns the canonical names of the available sequences.
	Sequences() []string
}

// TableService is the default Service, backed by a sequence catalog.
type TableService struct {
	catalog     sequence.Catalog
	maxN        int
	concurrency int
	logger      logging.Logger
}

// NewTableService creates a service. A maxN of 0 disables the limit.
func NewTableService(catalog sequence.Catalog, maxN, concurrency int, logger logging.Logger) *TableService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TableService{
		catalog:     catalog,
		maxN:        maxN,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Render implements Service.
func (s *TableService) Render(ctx context.Context, selection string, n int) ([]byte, error) {
	if s.maxN > 0 && n > s.maxN {
		return nil, fmt.Errorf("%w: %d > %d", ErrMaxValueExceeded, n, s.maxN)
	}
	jobs, err := orchestration.PlanJobs(s.catalog, selection, []int{n})
	if err != nil {
		return nil, err
	}
	results := orchestration.BuildTables(ctx, jobs, orchestration.Options{
		Concurrency: s.concurrency,
		Observers:   []orchestration.ProgressObserver{orchestration.NewMetricsObserver(jobs)},
		Logger:      s.logger,
	})

	var buf bytes.Buffer
	if err := orchestration.WriteTables(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Sequences implements Service.
func (s *TableService) Sequences() []string {
	return s.catalog.List()
}
