package pqwriter

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestDuplicateRegistration(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := newReplacingRegistry(promReg)

	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test",
		Help: "test",
	})
	reg.MustRegister(c)

	c.Inc()
	c.Inc()

	checkCounter := func(expValue float64) {
		mf, err := promReg.Gather()
		require.NoError(t, err)
		require.Len(t, mf, 1)
		require.Len(t, mf[0].Metric, 1)
		require.Equal(t, expValue, *mf[0].Metric[0].Counter.Value)
	}
	checkCounter(2)

	c = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test",
		Help: "test",
	})
	require.Panics(t, func() {
		promReg.MustRegister(c)
	}, "should panic when registering the same collector twice")

	// The replacing registry swaps the old collector out.
	reg.MustRegister(c)

	c.Inc()
	checkCounter(1)
}

func TestWriterMetricsTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newWriterMetrics(reg, "ds")
	m.rows.Inc()
	require.NotPanics(t, func() {
		m = newWriterMetrics(reg, "ds")
	})
	m.rows.Inc()
	m.rows.Inc()

	mf, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range mf {
		if f.GetName() == "pqwriter_rows_total" {
			require.Equal(t, 2.0, f.Metric[0].Counter.GetValue())
			return
		}
	}
	t.Fatal("pqwriter_rows_total not gathered")
}
