package di

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes used as the `outcome` label.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeDisposed = "disposed"
)

// metrics contains the prometheus collectors of a container tree.
// A nil *metrics is valid and records nothing.
type metrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
}

// newMetrics creates the collectors and registers them in reg.
// If they are already registered, for example by another container
// using the same registerer, the existing collectors are reused.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "di",
				Name:      "resolutions_total",
				Help:      "Total number of top-level resolutions by outcome",
			},
			[]string{"outcome"},
		),
		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "di",
				Name:      "resolution_duration_seconds",
				Help:      "Duration of top-level resolutions in seconds",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
	}

	if err := reg.Register(m.resolutionsTotal); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.resolutionsTotal = are.ExistingCollector.(*prometheus.CounterVec)
	}

	if err := reg.Register(m.resolutionDuration); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.resolutionDuration = are.ExistingCollector.(prometheus.Histogram)
	}

	return m, nil
}

func (m *metrics) observe(start time.Time, err error) {
	if m == nil {
		return
	}

	outcome := outcomeSuccess

	switch {
	case errors.Is(err, ErrContainerDisposed):
		outcome = outcomeDisposed
	case err != nil:
		outcome = outcomeFailure
	}

	m.resolutionsTotal.WithLabelValues(outcome).Inc()
	m.resolutionDuration.Observe(time.Since(start).Seconds())
}
