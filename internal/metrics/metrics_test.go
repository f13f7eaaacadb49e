package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersExposed(t *testing.T) {
	ProcessedObservationsTotal.WithLabelValues("test-provider").Add(3)
	RunsTotal.WithLabelValues("test-provider", "Success").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(ProcessedObservationsTotal.WithLabelValues("test-provider")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `obsproc_runs_total{provider="test-provider",status="Success"} 1`)
}
