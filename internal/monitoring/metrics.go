package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 编排器运行指标
var (
	LoopIterations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulse_agent",
		Subsystem: "loop",
		Name:      "iterations_total",
		Help:      "Total completed autonomous loop iterations.",
	})

	LoopErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulse_agent",
		Subsystem: "loop",
		Name:      "errors_total",
		Help:      "Total loop iterations that ended with an error.",
	})

	LoopSkippedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulse_agent",
		Subsystem: "loop",
		Name:      "skipped_ticks_total",
		Help:      "Ticks skipped because the previous iteration was still running.",
	})

	LoopDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pulse_agent",
		Subsystem: "loop",
		Name:      "iteration_duration_seconds",
		Help:      "Duration of a single loop iteration.",
		Buckets:   prometheus.DefBuckets,
	})

	TrendsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulse_agent",
		Subsystem: "trend",
		Name:      "analyzed_total",
		Help:      "Total trends extracted from social posts.",
	})

	Deployments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse_agent",
		Subsystem: "deployer",
		Name:      "deployments_total",
		Help:      "Total token deployment attempts by result.",
	}, []string{"result"})

	TreasuryBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pulse_agent",
		Subsystem: "treasury",
		Name:      "balance_native",
		Help:      "Current treasury balance in native currency units.",
	})
)
