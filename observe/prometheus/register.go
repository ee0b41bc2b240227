package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var regOnce sync.Once

// MustRegisterAll registers all Prometheus collectors exactly once.
func MustRegisterAll() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			// extractor
			ExtractDocumentsTotal,
			ExtractSeconds,
			ExtractMissingFieldTotal,
			ExtractSectionEmptyTotal,

			// location
			AdCodeLookupTotal,

			// batch
			BatchRowsTotal,
			BatchWorkersBusy,
			BatchFileSeconds,
			BlockRowsTotal,
		)
	})
}
