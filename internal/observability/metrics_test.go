package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordRequestAndError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("/login", "POST", 200, 15*time.Millisecond)
	m.RecordRequest("/login", "POST", 200, 5*time.Millisecond)
	m.RecordError("/login", "POST", "UNAUTHORIZED")
	m.RecordAuth("admin", "invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/login", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/login", "POST", "UNAUTHORIZED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auth.WithLabelValues("admin", "invalid_credentials")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuth("user", "ok")
	})
}
