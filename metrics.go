package pqwriter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/polarsignals/pqwriter/errs"
)

type writerMetrics struct {
	rows          prometheus.Counter
	rowGroups     prometheus.Counter
	fills         prometheus.Counter
	nulls         prometheus.Counter
	errors        *prometheus.CounterVec
	flushDuration prometheus.Histogram
}

func newWriterMetrics(reg prometheus.Registerer, dataset string) *writerMetrics {
	reg = prometheus.WrapRegistererWithPrefix("pqwriter_",
		prometheus.WrapRegistererWith(prometheus.Labels{"dataset": dataset}, newReplacingRegistry(reg)))

	return &writerMetrics{
		rows: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "rows_total",
			Help: "Number of rows completed.",
		}),
		rowGroups: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "row_groups_total",
			Help: "Number of row groups written.",
		}),
		fills: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fills_total",
			Help: "Number of successful fill calls.",
		}),
		nulls: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "nulls_synthesized_total",
			Help: "Number of nulls appended for fields skipped in a row.",
		}),
		errors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Number of errors that left a writer unusable, by kind.",
		}, []string{"kind"}),
		flushDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "flush_duration_seconds",
			Help:    "Time taken to encode and write a row group.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *writerMetrics) observeError(err error) {
	m.errors.WithLabelValues(errs.KindOf(err).String()).Inc()
}
