package orchestration

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/agbru/seqtable/internal/sequence"
)

// ProgressObserver receives progress notifications for a job.
type ProgressObserver interface {
	Update(jobIndex int, progress float64)
}

// ProgressSubject fans progress notifications out to registered observers.
// It is safe for concurrent use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject creates a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Notify forwards an update to every observer.
func (s *ProgressSubject) Notify(jobIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(jobIndex, progress)
	}
}

// AsProgressFunc adapts the subject to the extraction callback of one job.
func (s *ProgressSubject) AsProgressFunc(jobIndex int) sequence.ProgressFunc {
	return func(done, total int) {
		s.Notify(jobIndex, fraction(done, total))
	}
}

// fraction normalizes done/total; an empty job counts as complete.
func fraction(done, total int) float64 {
	if total <= 0 {
		return 1.0
	}
	return float64(done) / float64(total)
}

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards updates to a ProgressUpdate channel.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to ch. If ch is
// nil, updates are discarded.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver. The send never blocks: when the
// channel is full the update is dropped.
func (o *ChannelObserver) Update(jobIndex int, progress float64) {
	if o.channel == nil {
		return
	}
	if progress > 1.0 {
		progress = 1.0
	}
	select {
	case o.channel <- ProgressUpdate{JobIndex: jobIndex, Value: progress}:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs progress at debug level, throttled per job.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	lastLog   map[int]float64
	mu        sync.Mutex
}

// NewLoggingObserver creates an observer that logs when a job's progress
// moves by at least threshold (0.1 when threshold is not positive).
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(jobIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastLog[jobIndex]
	shouldLog := !seen || progress >= 1.0 && last < 1.0 || progress-last >= o.threshold
	if !shouldLog {
		return
	}
	o.logger.Debug().
		Int("job", jobIndex).
		Float64("progress", progress).
		Str("percent", fmt.Sprintf("%.1f%%", progress*100)).
		Msg("table progress")
	o.lastLog[jobIndex] = progress
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer
// ─────────────────────────────────────────────────────────────────────────────

// progressGauge is registered once globally to avoid duplicate registration.
var progressGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "seqtable",
		Name:      "table_progress",
		Help:      "Progress of the latest table build per sequence (0.0 to 1.0).",
	},
	[]string{"sequence"},
)

// MetricsObserver exports progress to a Prometheus gauge labeled by sequence.
type MetricsObserver struct {
	gauge     *prometheus.GaugeVec
	sequences []string
}

// NewMetricsObserver creates an observer for the given jobs, backed by the
// global gauge.
func NewMetricsObserver(jobs []Job) *MetricsObserver {
	sequences := make([]string, len(jobs))
	for i, j := range jobs {
		sequences[i] = j.Kind.Name
	}
	return &MetricsObserver{gauge: progressGauge, sequences: sequences}
}

// Update implements ProgressObserver. Indices outside the job list are ignored.
func (o *MetricsObserver) Update(jobIndex int, progress float64) {
	if jobIndex < 0 || jobIndex >= len(o.sequences) {
		return
	}
	o.gauge.WithLabelValues(o.sequences[jobIndex]).Set(progress)
}
