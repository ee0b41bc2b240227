package prom

import "github.com/prometheus/client_golang/prometheus"

var (
	BatchRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "batch",
			Name:      "rows_total",
			Help:      "Input rows consumed by the batch pipeline per source file.",
		},
		[]string{"file"},
	)

	BatchWorkersBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "judge",
			Subsystem: "batch",
			Name:      "workers_busy",
			Help:      "Extraction workers currently processing a document.",
		},
	)

	BatchFileSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "judge",
			Subsystem: "batch",
			Name:      "file_seconds",
			Help:      "Wall time in seconds to finish one source file.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		},
		[]string{"file"},
	)

	BlockRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "blocks",
			Name:      "rows_total",
			Help:      "Rows written into per-adcode block files.",
		},
		[]string{"adcode"},
	)
)
