package prom

import "github.com/prometheus/client_golang/prometheus"

var (
	ExtractDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "extractor",
			Name:      "documents_total",
			Help:      "Judgment documents processed partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	ExtractSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "judge",
			Subsystem: "extractor",
			Name:      "extract_seconds",
			Help:      "Latency in seconds for full extraction of one document.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ExtractMissingFieldTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "extractor",
			Name:      "missing_field_total",
			Help:      "Fields that came out empty after extraction, per field name.",
		},
		[]string{"field"},
	)

	ExtractSectionEmptyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "extractor",
			Name:      "section_empty_total",
			Help:      "Sections left empty by the splitter, per section key.",
		},
		[]string{"section"},
	)

	AdCodeLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "location",
			Name:      "adcode_lookup_total",
			Help:      "Court to adcode lookups partitioned by result (hit, miss, cached).",
		},
		[]string{"result"},
	)
)
