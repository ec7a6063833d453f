// Package metrics exports benchmark observations as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeebo/errs"

	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/matherr"
)

// Error is the error class for metrics failures.
var Error = errs.Class("metrics")

const namespace = "cubench"

// UnitBuckets spans a noop up to a wide decimal square root.
var UnitBuckets = prometheus.ExponentialBuckets(1, 4, 12)

// Collector records invocation outcomes on a private registry. It satisfies
// bench.Recorder.
type Collector struct {
	registry *prometheus.Registry
	units    *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// New returns a Collector with its metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		units: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "units",
			Help:      "Corrected compute units consumed per invocation.",
			Buckets:   UnitBuckets,
		}, []string{"instruction"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Invocations that failed, by reason.",
		}, []string{"instruction", "reason"}),
	}

	c.registry.MustRegister(c.units, c.failures)

	return c
}

// Registry exposes the registry for export.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records a successful invocation.
func (c *Collector) Observe(name string, units uint64) {
	c.units.WithLabelValues(name).Observe(float64(units))
}

// Failure records a failed invocation.
func (c *Collector) Failure(name string, err error) {
	c.failures.WithLabelValues(name, Reason(err)).Inc()
}

// Reason classifies err into a small label set.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, matherr.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, matherr.Overflow):
		return "overflow"
	case errors.Is(err, matherr.Underflow):
		return "underflow"
	case instruction.DecodeError.Has(err):
		return "decode"
	}

	return "other"
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return Error.Wrap(prometheus.WriteToTextfile(path, c.registry))
}
