package pqwriter

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// replacingRegistry is a wrapper on top of a prometheus registry that allows
// metrics to be registered multiple times. Writers are discarded and
// recreated for the same dataset after a failed row, so registering a
// collector whose descriptor already exists replaces the old collector and
// its value starts again from 0.
type replacingRegistry struct {
	internalReg prometheus.Registerer
}

var _ prometheus.Registerer = (*replacingRegistry)(nil)

func newReplacingRegistry(reg prometheus.Registerer) *replacingRegistry {
	return &replacingRegistry{internalReg: reg}
}

func (r *replacingRegistry) Register(c prometheus.Collector) error {
	err := r.internalReg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return err
	}
	// ExistingCollector is not wrapped with the prefix and labels c carries,
	// so only c itself matches the registered descriptors.
	_ = r.internalReg.Unregister(c)
	return r.internalReg.Register(c)
}

func (r *replacingRegistry) MustRegister(collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

func (r *replacingRegistry) Unregister(c prometheus.Collector) bool {
	return r.internalReg.Unregister(c)
}
