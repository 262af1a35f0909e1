package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBeginRecordsRequest(t *testing.T) {
	m := New()
	done := m.Begin()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inflight))
	done("GET", "/api/countries", 200)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inflight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/countries", "200")))
}

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.AuthEvent("login", "ok")
	m.RateLimited("/api/auth/login")
	m.TokensPurged(3)
	m.TokensPurged(0)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.purged))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "bizadmin_auth_events_total"))
	assert.True(t, strings.Contains(body, "bizadmin_rate_limited_total"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.AuthEvent("login", "ok")
	m.RateLimited("x")
	m.TokensPurged(1)
	m.Begin()("GET", "/", 200)
}
