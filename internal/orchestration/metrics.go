package orchestration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	termsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seqtable",
			Name:      "terms_generated_total",
			Help:      "Number of sequence terms pulled from generators.",
		},
		[]string{"sequence"},
	)

	tableBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seqtable",
			Name:      "table_build_duration_seconds",
			Help:      "Time spent extracting the terms of one table.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"sequence", "status"},
	)
)
