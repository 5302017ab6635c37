package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveCountsByStatus(t *testing.T) {
	Observe("test.op", time.Now(), nil)
	Observe("test.op", time.Now(), errors.New("boom"))
	Observe("test.op", time.Now(), errors.New("boom"))

	assert.Equal(t, 1.0, counterValue(t, AdvisoryTotal.WithLabelValues("test.op", "ok")))
	assert.Equal(t, 2.0, counterValue(t, AdvisoryTotal.WithLabelValues("test.op", "error")))
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
