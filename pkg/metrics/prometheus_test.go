package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordError("prices")
	r.RecordError("prices")
	r.RecordRows("prices", 10)
	r.RecordExcluded("prices", 0)
	r.RecordExcluded("prices", 2)
	r.RecordFetch("prices", 0.02)
	r.RecordLatency("charts.prices", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("prices")))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.rowsTotal.WithLabelValues("prices")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.excludedTotal.WithLabelValues("prices")))
}
