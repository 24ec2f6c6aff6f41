package di

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()

	app := newTestContainer(t, WithMetrics(reg))
	child, err := app.GetChildContainer()
	require.Nil(t, err)

	require.Nil(t, Register[Logger, *ConsoleLogger](app).Err())

	_, err = Resolve[Logger](app)
	require.Nil(t, err)
	_, err = Resolve[*Widget](child)
	require.Nil(t, err)
	_, err = Resolve[Clock](child)
	require.True(t, errors.Is(err, ErrResolution))

	require.Nil(t, child.Dispose())
	_, err = Resolve[Logger](child)
	require.True(t, errors.Is(err, ErrContainerDisposed))

	m := app.core.metrics

	require.Equal(t, 2.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues(outcomeSuccess)), "nested resolutions are not counted")
	require.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues(outcomeFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues(outcomeDisposed)))

	count, err := testutil.GatherAndCount(reg, "di_resolutions_total", "di_resolution_duration_seconds")
	require.Nil(t, err)
	require.Equal(t, 4, count)
}

func TestMetricsSharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	c1 := newTestContainer(t, WithMetrics(reg))
	c2 := newTestContainer(t, WithMetrics(reg))

	require.Same(t, c1.core.metrics.resolutionsTotal, c2.core.metrics.resolutionsTotal)

	_, err := Resolve[Container](c1)
	require.Nil(t, err)
	_, err = Resolve[Container](c2)
	require.Nil(t, err)

	require.Equal(t, 2.0, testutil.ToFloat64(c1.core.metrics.resolutionsTotal.WithLabelValues(outcomeSuccess)))

	_, err = New(WithMetrics(nil))
	require.NotNil(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics
	require.NotPanics(t, func() { m.observe(time.Now(), nil) })
}
