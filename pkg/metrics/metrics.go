package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

var (
	EditLatencyHistogram = prom.NewHistogramVec(
		prom.HistogramOpts{
			Name:    "splayedit_edit_latency_ns",
			Help:    "Latency of a single relocation edit in nanoseconds",
			Buckets: prom.ExponentialBuckets(16, 2, 24),
		},
		[]string{"impl"},
	)
	EditLatencyQuantile = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "splayedit_edit_latency_quantile_ns",
			Help: "Quantile of relocation edit latency in nanoseconds",
		},
		[]string{"impl", "quantile"},
	)
	BenchRunSeconds = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "splayedit_bench_run_seconds",
			Help: "Wall time of the last benchmark run, including construction and materialization",
		},
		[]string{"impl"},
	)
	BenchMismatchCount = prom.NewCounter(
		prom.CounterOpts{
			Name: "splayedit_bench_mismatch_count",
			Help: "Total number of benchmark runs whose tree result differed from the naive splice",
		},
	)
	SequenceLength = prom.NewGauge(
		prom.GaugeOpts{
			Name: "splayedit_sequence_length",
			Help: "Length of the sequence being edited",
		},
	)
)

func Init() {
	prom.MustRegister(EditLatencyHistogram)
	prom.MustRegister(EditLatencyQuantile)
	prom.MustRegister(BenchRunSeconds)
	prom.MustRegister(BenchMismatchCount)
	prom.MustRegister(SequenceLength)
}
